package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/constants"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/tracker"
)

type CompleteHabitMsg struct {
	ID    string
	Title string
}

type Item struct {
	View tracker.HabitView
}

func (i Item) Title() string {
	title := cli.StatusIcon(i.View.Progress.Status) + " " + i.View.Template.Title
	if i.View.DoneToday {
		title += " ✓"
	}
	return title
}

func (i Item) Description() string {
	p := i.View.Progress
	if p.Status == models.HabitLocked {
		return fmt.Sprintf("unlocks at level %d", i.View.Template.Level)
	}
	desc := fmt.Sprintf("level %d · %d/%d · streak %d · %d XP",
		i.View.Template.Level,
		min(p.CompletedCount, constants.MasteryThreshold),
		constants.MasteryThreshold,
		p.CurrentStreak,
		i.View.Template.XPReward)
	if i.View.DoneToday {
		desc += " · done today"
	}
	return desc
}

func (i Item) FilterValue() string { return i.View.Template.Title }

// completable reports whether enter should record a completion.
func (i Item) completable() bool {
	return !i.View.DoneToday && i.View.Progress.Status != models.HabitLocked
}

type KeyMap struct {
	Complete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "complete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(views []tracker.HabitView, width, height int) Model {
	l := list.New(items(views), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete}
	}

	return Model{list: l, keys: keys}
}

func items(views []tracker.HabitView) []list.Item {
	out := make([]list.Item, len(views))
	for i, v := range views {
		out[i] = Item{View: v}
	}
	return out
}

func (m *Model) SetHabits(views []tracker.HabitView) {
	m.list.SetItems(items(views))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Complete) {
			if i, ok := m.list.SelectedItem().(Item); ok && i.completable() {
				return m, func() tea.Msg {
					return CompleteHabitMsg{ID: i.View.Template.ID, Title: i.View.Template.Title}
				}
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No active goal.\n  Start one with 'ascend goal start'."
	}
	return m.list.View()
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
