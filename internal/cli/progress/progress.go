// Package progress holds the read-only progression views: stats, achievements
// and the XP log.
package progress

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/achievements"
	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/constants"
)

type StatsCmd struct {
	Recent int `short:"r" default:"5" help:"Number of recent completions to show (0 hides them)."`
}

func (c *StatsCmd) Validate() error {
	if c.Recent < 0 {
		return fmt.Errorf("recent must not be negative")
	}
	return nil
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Tracker.Stats()
	if err != nil {
		return err
	}

	ctx.Println(cli.LevelBar(st, 30))
	ctx.Printf("Total XP:          %d\n", st.Ledger.TotalXP)
	ctx.Printf("Current streak:    %d day(s)\n", st.Ledger.CurrentStreak)
	ctx.Printf("Best streak:       %d day(s)\n", st.Ledger.BestStreak)
	if st.Ledger.LastActivityDate != "" {
		ctx.Printf("Last active:       %s\n", st.Ledger.LastActivityDate)
	}
	ctx.Printf("Completions:       %d\n", st.TotalCompletions)
	ctx.Printf("Goals completed:   %d\n", st.CompletedGoals)
	ctx.Printf("Achievements:      %d/%d\n", st.Unlocked, st.TotalAchievements)

	if c.Recent == 0 || st.TotalCompletions == 0 {
		return nil
	}
	recent, err := ctx.Store.GetRecentCompletions(st.Ledger.UserID, c.Recent)
	if err != nil {
		return err
	}
	ctx.Println()
	ctx.Println(cli.TitleStyle.Render("Recent completions"))
	for _, comp := range recent {
		line := fmt.Sprintf("  %s %s  %-24s %s",
			comp.Date,
			comp.CreatedAt.Local().Format(constants.TimeFormat),
			comp.HabitTemplateID,
			cli.XPStyle.Render(fmt.Sprintf("+%d XP", comp.XPEarned)))
		if comp.Rating != nil {
			line += fmt.Sprintf("  %d/5", *comp.Rating)
		}
		ctx.Println(line)
	}
	return nil
}

type AchievementsCmd struct {
	Locked bool `help:"Only show achievements not yet unlocked."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	userID, _, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	defs, err := ctx.Store.GetAchievements()
	if err != nil {
		return err
	}
	unlocks, err := ctx.Store.GetUnlocks(userID)
	if err != nil {
		return err
	}
	unlocked := achievements.UnlockedSet(unlocks)
	at := make(map[string]string, len(unlocks))
	for _, u := range unlocks {
		at[u.AchievementID] = u.UnlockedAt.Local().Format(constants.DateFormat)
	}

	for _, def := range defs {
		if c.Locked && unlocked[def.ID] {
			continue
		}
		icon := def.Icon
		if icon == "" {
			icon = "🏆"
		}
		line := fmt.Sprintf("%s %-22s %s", icon, def.Name, cli.XPStyle.Render(fmt.Sprintf("+%d XP", def.XPReward)))
		if unlocked[def.ID] {
			ctx.Printf("%s %s\n", line, cli.SuccessStyle.Render("unlocked "+at[def.ID]))
		} else {
			ctx.Printf("%s %s\n", cli.MutedStyle.Render(line), cli.MutedStyle.Render(def.Description))
		}
	}
	return nil
}

type XPCmd struct {
	Log XPLogCmd `cmd:"" default:"1" help:"Show recent XP transactions."`
}

type XPLogCmd struct {
	Limit int `short:"l" default:"20" help:"Number of transactions to show."`
}

func (c *XPLogCmd) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	return nil
}

func (c *XPLogCmd) Run(ctx *cli.Context) error {
	userID, _, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	txs, err := ctx.Store.GetTransactions(userID, c.Limit)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		ctx.Println("No XP earned yet.")
		return nil
	}
	for _, tx := range txs {
		ctx.Printf("%s  %s  %-18s %s\n",
			tx.CreatedAt.Local().Format(constants.DateFormat+" "+constants.TimeFormat),
			cli.XPStyle.Render(fmt.Sprintf("%+5d", tx.Amount)),
			tx.Type,
			tx.Source)
	}
	return nil
}
