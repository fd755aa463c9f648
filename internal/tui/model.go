package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/tracker"
	"github.com/julianstephens/ascend/internal/tui/components/achievements"
	"github.com/julianstephens/ascend/internal/tui/components/habits"
	"github.com/julianstephens/ascend/internal/tui/components/tasks"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateTasks
	StateAchievements
	StateAddTask
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

// taskWindowDays is how far ahead the task tab looks.
const taskWindowDays = 7

type TaskFormModel struct {
	Title string
	Date  string
}

type Model struct {
	tracker      *tracker.Service
	state        SessionState
	keys         KeyMap
	help         help.Model
	habits       habits.Model
	tasks        tasks.Model
	achievements achievements.Model
	form         *huh.Form
	taskForm     *TaskFormModel
	dashboard    tracker.Dashboard
	status       string
	err          error
	quitting     bool
	width        int
	height       int
}

func NewModel(t *tracker.Service) Model {
	return Model{
		tracker:      t,
		state:        StateHabits,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		habits:       habits.New(nil, 0, 0),
		tasks:        tasks.New(nil, 0, 0),
		achievements: achievements.New(nil, nil, 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits:
		keys = append(keys, habits.DefaultKeyMap().Complete)
	case StateTasks:
		tk := tasks.DefaultKeyMap()
		keys = append(keys, m.keys.Add, tk.Done, tk.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}

	var actions []key.Binding
	switch m.state {
	case StateHabits:
		actions = []key.Binding{habits.DefaultKeyMap().Complete}
	case StateTasks:
		tk := tasks.DefaultKeyMap()
		actions = []key.Binding{m.keys.Add, tk.Done, tk.Delete}
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return m.load
}

// dashboardMsg carries everything the tabs render after a reload.
type dashboardMsg struct {
	dashboard tracker.Dashboard
	tasks     []models.Task
	defs      []models.Achievement
	unlocks   []models.AchievementUnlock
	err       error
}

type completionMsg struct {
	title  string
	result models.CompletionResult
	err    error
}

// actionMsg reports a task mutation; the view reloads either way.
type actionMsg struct {
	status string
	err    error
}
