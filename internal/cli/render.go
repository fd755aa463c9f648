package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ascend/internal/constants"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/tracker"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	XPStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Bold(true)
)

// StatusIcon is the one-glyph marker for a habit status.
func StatusIcon(s models.HabitStatus) string {
	switch s {
	case models.HabitCompleted:
		return "★"
	case models.HabitInProgress:
		return "◐"
	case models.HabitAvailable:
		return "○"
	default:
		return "🔒"
	}
}

// LevelBar renders the XP progress toward the next level.
func LevelBar(st tracker.Stats, width int) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(width))
	return fmt.Sprintf("Level %d %s %s",
		st.Ledger.CurrentLevel,
		bar.ViewAs(st.LevelPercent/100),
		MutedStyle.Render(fmt.Sprintf("%d XP, %d to next", st.Ledger.TotalXP, st.XPToNextLevel)))
}

// FormatResult describes a completion result for the terminal.
func FormatResult(title string, res models.CompletionResult) string {
	if !res.Accepted {
		return WarningStyle.Render(fmt.Sprintf("%s: %s", title, res.Reason))
	}

	var b strings.Builder
	b.WriteString(SuccessStyle.Render("✓ Completed " + title))
	b.WriteString(" " + XPStyle.Render(fmt.Sprintf("+%d XP", res.XPAwarded)))
	if res.NewLevel != nil {
		fmt.Fprintf(&b, "\n  %s", TitleStyle.Render(fmt.Sprintf("Level up! You are now level %d", *res.NewLevel)))
	}
	for _, a := range res.NewlyUnlockedAchievements {
		fmt.Fprintf(&b, "\n  🏆 %s %s", a.Name, MutedStyle.Render(fmt.Sprintf("(+%d XP)", a.XPReward)))
	}
	if len(res.NewlyUnlockedHabits) > 0 {
		fmt.Fprintf(&b, "\n  Level %d unlocked: %s", res.GoalLevel, strings.Join(res.NewlyUnlockedHabits, ", "))
	}
	if res.GoalCompleted {
		fmt.Fprintf(&b, "\n  %s", TitleStyle.Render("Goal complete!"))
	}
	return b.String()
}

// PrintHabits lists habits grouped by level.
func PrintHabits(ctx *Context, habits []tracker.HabitView) {
	level := 0
	for _, h := range habits {
		if h.Template.Level != level {
			level = h.Template.Level
			ctx.Println(MutedStyle.Render(fmt.Sprintf("Level %d", level)))
		}
		done := ""
		if h.DoneToday {
			done = SuccessStyle.Render(" ✓ today")
		}
		ctx.Printf("  %s %-20s %-28s %d/%d  streak %d  %s%s\n",
			StatusIcon(h.Progress.Status),
			h.Template.ID,
			h.Template.Title,
			min(h.Progress.CompletedCount, constants.MasteryThreshold),
			constants.MasteryThreshold,
			h.Progress.CurrentStreak,
			XPStyle.Render(fmt.Sprintf("%dXP", h.Template.XPReward)),
			done)
	}
}
