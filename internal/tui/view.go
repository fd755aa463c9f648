package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ascend/internal/cli"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habits.View())
	case StateTasks:
		content = docStyle.Render(m.tasks.View())
	case StateAchievements:
		content = docStyle.Render(m.achievements.View())
	case StateAddTask:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := cli.TitleStyle.Render("ascend")
	if g := m.dashboard.Goal; g != nil {
		title += fmt.Sprintf(" %s %s",
			m.dashboard.GoalTemplate.Title,
			cli.MutedStyle.Render(fmt.Sprintf("level %d/%d", g.CurrentLevel, m.dashboard.GoalTemplate.TotalLevels)))
	} else {
		title += " " + cli.MutedStyle.Render("no active goal")
	}

	width := 30
	if m.width > 0 && m.width/3 < width {
		width = max(m.width/3, 10)
	}
	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		cli.LevelBar(m.dashboard.Stats, width),
	))
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Tasks", "Achievements"} {
		active := m.state == SessionState(i) || (m.state == StateAddTask && SessionState(i) == StateTasks)
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}
