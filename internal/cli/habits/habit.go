package habits

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/models"
)

type HabitCmd struct {
	List     HabitListCmd     `cmd:"" default:"1" help:"List the active goal's habits."`
	Complete HabitCompleteCmd `cmd:"" help:"Complete a habit for today."`
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Tracker.Dashboard()
	if err != nil {
		return err
	}
	if d.Goal == nil {
		ctx.Println("No active goal. Start one with 'ascend goal start'.")
		return nil
	}
	ctx.Printf("%s %s\n", cli.TitleStyle.Render(d.GoalTemplate.Title), cli.MutedStyle.Render(d.Today))
	cli.PrintHabits(ctx, d.Habits)
	return nil
}

type HabitCompleteCmd struct {
	ID      string `arg:"" help:"Habit id (see 'ascend habit list')."`
	Rating  *int   `short:"r" help:"How it went, 1 to 5."`
	Notes   string `short:"n" help:"Optional notes."`
	Minutes *int   `short:"m" help:"Minutes spent."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Tracker.CompleteHabit(models.CompletionCommand{
		HabitTemplateID: c.ID,
		Rating:          c.Rating,
		Notes:           c.Notes,
		ElapsedMinutes:  c.Minutes,
	})
	if err != nil {
		return err
	}

	title := c.ID
	if d, err := ctx.Tracker.Dashboard(); err == nil {
		for _, h := range d.Habits {
			if h.Template.ID == c.ID {
				title = h.Template.Title
			}
		}
	}
	ctx.Println(cli.FormatResult(title, res))
	if res.Accepted {
		st, err := ctx.Tracker.Stats()
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		ctx.Println(cli.LevelBar(st, 30))
	}
	return nil
}
