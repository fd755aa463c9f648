package goals

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/models"
)

type GoalCmd struct {
	List   GoalListCmd   `cmd:"" help:"List catalog goals and your progress on them."`
	Start  GoalStartCmd  `cmd:"" help:"Start pursuing a goal."`
	Pause  GoalPauseCmd  `cmd:"" help:"Pause the active goal."`
	Resume GoalResumeCmd `cmd:"" help:"Resume a paused goal."`
	Show   GoalShowCmd   `cmd:"" default:"1" help:"Show the active goal."`
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	userID, _, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	templates, err := ctx.Store.GetGoalTemplates()
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		ctx.Println("No goals in the catalog. Run 'ascend catalog sync'.")
		return nil
	}
	instances, err := ctx.Store.GetGoalInstances(userID)
	if err != nil {
		return err
	}

	// Latest instance per template wins.
	latest := make(map[string]models.GoalInstance)
	for _, g := range instances {
		latest[g.GoalTemplateID] = g
	}

	for _, t := range templates {
		status := cli.MutedStyle.Render("not started")
		if g, ok := latest[t.ID]; ok {
			status = fmt.Sprintf("%s, level %d/%d", g.Status, g.CurrentLevel, t.TotalLevels)
			if g.Status == models.GoalActive {
				status = cli.SuccessStyle.Render(status)
			}
		}
		ctx.Printf("%-24s %-32s %s\n", t.ID, t.Title, status)
	}
	return nil
}

type GoalStartCmd struct {
	ID string `arg:"" optional:"" help:"Goal template id. Prompts when omitted."`
}

func (c *GoalStartCmd) Run(ctx *cli.Context) error {
	id := c.ID
	if id == "" {
		var err error
		if id, err = pickGoal(ctx); err != nil {
			return err
		}
	}

	goal, err := ctx.Tracker.StartGoal(id)
	if err != nil {
		return err
	}
	tmpl, err := ctx.Store.GetGoalTemplate(goal.GoalTemplateID)
	if err != nil {
		return err
	}
	ctx.Println(cli.SuccessStyle.Render(fmt.Sprintf("Started %s", tmpl.Title)))
	ctx.Printf("Level %d of %d. See your habits with 'ascend habit list'.\n", goal.CurrentLevel, tmpl.TotalLevels)
	return nil
}

func pickGoal(ctx *cli.Context) (string, error) {
	if !ctx.Interactive {
		return "", errors.New("goal id is required, see 'ascend goal list'")
	}
	templates, err := ctx.Store.GetGoalTemplates()
	if err != nil {
		return "", err
	}
	if len(templates) == 0 {
		return "", errors.New("no goals in the catalog, run 'ascend catalog sync'")
	}

	options := make([]huh.Option[string], 0, len(templates))
	for _, t := range templates {
		label := t.Title
		if t.Category != "" {
			label = fmt.Sprintf("%s (%s)", t.Title, t.Category)
		}
		options = append(options, huh.NewOption(label, t.ID))
	}

	var id string
	err = huh.NewSelect[string]().
		Title("Which goal do you want to pursue?").
		Options(options...).
		Value(&id).
		Run()
	return id, err
}

type GoalPauseCmd struct{}

func (c *GoalPauseCmd) Run(ctx *cli.Context) error {
	goal, err := ctx.Tracker.PauseGoal()
	if err != nil {
		return err
	}
	ctx.Printf("Paused %s at level %d.\n", goal.GoalTemplateID, goal.CurrentLevel)
	return nil
}

type GoalResumeCmd struct {
	ID string `arg:"" optional:"" help:"Goal template id. Optional when only one goal is paused."`
}

func (c *GoalResumeCmd) Run(ctx *cli.Context) error {
	goal, err := ctx.Tracker.ResumeGoal(c.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Resumed %s at level %d.\n", goal.GoalTemplateID, goal.CurrentLevel)
	return nil
}

type GoalShowCmd struct{}

func (c *GoalShowCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Tracker.Dashboard()
	if err != nil {
		return err
	}
	if d.Goal == nil {
		ctx.Println("No active goal. Start one with 'ascend goal start'.")
		return nil
	}

	ctx.Println(cli.TitleStyle.Render(d.GoalTemplate.Title))
	if d.GoalTemplate.Description != "" {
		ctx.Println(cli.MutedStyle.Render(d.GoalTemplate.Description))
	}
	ctx.Printf("Goal level %d of %d, started %s\n\n", d.Goal.CurrentLevel, d.GoalTemplate.TotalLevels, d.Goal.StartDate)
	cli.PrintHabits(ctx, d.Habits)
	ctx.Println()
	ctx.Println(cli.LevelBar(d.Stats, 30))
	return nil
}
