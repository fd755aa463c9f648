package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/constants"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/tui/components/habits"
	"github.com/julianstephens/ascend/internal/tui/components/tasks"
	"github.com/julianstephens/ascend/internal/utils"
)

// chromeHeight is the rows taken by the header, tabs, status and help.
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, reload := msg.(dashboardMsg); !reload && m.state == StateAddTask {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case dashboardMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.dashboard = msg.dashboard
		m.habits.SetHabits(msg.dashboard.Habits)
		m.tasks.SetTasks(msg.tasks)
		m.achievements.SetAchievements(msg.defs, msg.unlocks)
		return m, nil

	case completionMsg:
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = cli.FormatResult(msg.title, msg.result)
		}
		return m, m.load

	case actionMsg:
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = msg.status
		}
		return m, m.load

	case habits.CompleteHabitMsg:
		return m, m.completeHabit(msg.ID, msg.Title)

	case tasks.CompleteTaskMsg:
		return m, m.completeTask(msg.ID)

	case tasks.DeleteTaskMsg:
		return m, m.deleteTask(msg.ID)

	case tea.KeyMsg:
		if !m.filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Tab):
				m.state = (m.state + 1) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.state = (m.state - 1 + tabCount) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Refresh):
				return m, m.load
			case key.Matches(msg, m.keys.Add) && m.state == StateTasks:
				cmd := m.startTaskForm()
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habits, cmd = m.habits.Update(msg)
	case StateTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	case StateAchievements:
		m.achievements, cmd = m.achievements.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case StateHabits:
		return m.habits.Filtering()
	case StateTasks:
		return m.tasks.Filtering()
	case StateAchievements:
		return m.achievements.Filtering()
	}
	return false
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-chromeHeight
	if h < 1 {
		h = 1
	}
	m.habits.SetSize(w, h)
	m.tasks.SetSize(w, h)
	m.achievements.SetSize(w, h)
}

func (m Model) load() tea.Msg {
	d, err := m.tracker.Dashboard()
	if err != nil {
		return dashboardMsg{err: err}
	}
	msg := dashboardMsg{dashboard: d}

	userID, _, err := m.tracker.Today()
	if err != nil {
		return dashboardMsg{err: err}
	}
	to := d.Today
	if day, err := time.Parse(constants.DateFormat, d.Today); err == nil {
		to = utils.FormatDate(day.AddDate(0, 0, taskWindowDays))
	}
	store := m.tracker.Store()
	if msg.tasks, err = store.GetTasks(userID, d.Today, to); err != nil {
		return dashboardMsg{err: err}
	}
	if msg.defs, err = store.GetAchievements(); err != nil {
		return dashboardMsg{err: err}
	}
	if msg.unlocks, err = store.GetUnlocks(userID); err != nil {
		return dashboardMsg{err: err}
	}
	return msg
}

func (m Model) completeHabit(id, title string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.tracker.CompleteHabit(models.CompletionCommand{HabitTemplateID: id})
		return completionMsg{title: title, result: res, err: err}
	}
}

func (m Model) completeTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.tracker.CompleteTask(id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: cli.SuccessStyle.Render("✓ Task done")}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.tracker.Store().DeleteTask(id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "Task deleted"}
	}
}

func (m Model) addTask(form TaskFormModel) tea.Cmd {
	return func() tea.Msg {
		day, err := time.Parse(constants.DateFormat, strings.TrimSpace(form.Date))
		if err != nil {
			return actionMsg{err: err}
		}
		if _, err := m.tracker.AddTask(strings.TrimSpace(form.Title), day, nil); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: cli.SuccessStyle.Render("✓ Added " + form.Title)}
	}
}

func (m *Model) startTaskForm() tea.Cmd {
	m.taskForm = &TaskFormModel{Date: m.dashboard.Today}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.taskForm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&m.taskForm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
	)
	m.state = StateAddTask
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.state = StateTasks
		m.form, m.taskForm = nil, nil
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if f, ok := f.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		form := *m.taskForm
		m.state = StateTasks
		m.form, m.taskForm = nil, nil
		return m, m.addTask(form)
	case huh.StateAborted:
		m.state = StateTasks
		m.form, m.taskForm = nil, nil
		return m, nil
	}
	return m, cmd
}
