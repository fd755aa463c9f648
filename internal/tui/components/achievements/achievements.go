package achievements

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ascend/internal/constants"
	"github.com/julianstephens/ascend/internal/models"
)

type Item struct {
	Def      models.Achievement
	Unlocked *models.AchievementUnlock
}

func (i Item) Title() string {
	icon := i.Def.Icon
	if icon == "" {
		icon = "🏆"
	}
	if i.Unlocked == nil {
		icon = "·"
	}
	return fmt.Sprintf("%s %s", icon, i.Def.Name)
}

func (i Item) Description() string {
	if i.Unlocked != nil {
		return fmt.Sprintf("unlocked %s · +%d XP", i.Unlocked.UnlockedAt.Local().Format(constants.DateFormat), i.Def.XPReward)
	}
	return fmt.Sprintf("%s · +%d XP", i.Def.Description, i.Def.XPReward)
}

func (i Item) FilterValue() string { return i.Def.Name }

type Model struct {
	list list.Model
}

func New(defs []models.Achievement, unlocks []models.AchievementUnlock, width, height int) Model {
	l := list.New(items(defs, unlocks), list.NewDefaultDelegate(), width, height)
	l.Title = "Achievements"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return Model{list: l}
}

// items lists unlocked achievements first, each group in catalog order.
func items(defs []models.Achievement, unlocks []models.AchievementUnlock) []list.Item {
	byID := make(map[string]*models.AchievementUnlock, len(unlocks))
	for i := range unlocks {
		byID[unlocks[i].AchievementID] = &unlocks[i]
	}
	var done, open []list.Item
	for _, d := range defs {
		if u, ok := byID[d.ID]; ok {
			done = append(done, Item{Def: d, Unlocked: u})
		} else {
			open = append(open, Item{Def: d})
		}
	}
	return append(done, open...)
}

func (m *Model) SetAchievements(defs []models.Achievement, unlocks []models.AchievementUnlock) {
	m.list.SetItems(items(defs, unlocks))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
