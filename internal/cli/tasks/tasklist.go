package tasks

import (
	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/utils"
)

type TaskListCmd struct {
	From string `help:"First date to show (default: today)."`
	To   string `help:"Last date to show (default: a week from the first)."`
	Done bool   `help:"Include completed tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	userID, _, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	from, err := ctx.ParseDay(c.From)
	if err != nil {
		return err
	}
	to := from.AddDate(0, 0, 7)
	if c.To != "" {
		if to, err = ctx.ParseDay(c.To); err != nil {
			return err
		}
	}

	tasks, err := ctx.Store.GetTasks(userID, utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		return err
	}

	shown := 0
	for _, t := range tasks {
		if t.CompletedAt != nil && !c.Done {
			continue
		}
		mark := "○"
		if t.CompletedAt != nil {
			mark = cli.SuccessStyle.Render("✓")
		}
		series := ""
		if t.SeriesID != "" {
			series = cli.MutedStyle.Render(" ↻")
		}
		ctx.Printf("%s %s  %s%s  %s\n", mark, t.Date, t.Title, series, cli.MutedStyle.Render(t.ID))
		shown++
	}
	if shown == 0 {
		ctx.Println("No tasks found.")
	}
	return nil
}
