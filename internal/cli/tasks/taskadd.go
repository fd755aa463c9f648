package tasks

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/recurrence"
)

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Date     string `short:"d" help:"Date in YYYY-MM-DD format (default: today). Start of the series when recurring."`
	Every    int    `short:"e" help:"Repeat every N units (see --unit)."`
	Unit     string `short:"u" enum:"day,year" default:"day" help:"Unit for --every (day|year)."`
	Weekdays string `short:"w" help:"Repeat on comma-separated weekdays, e.g. mon,wed,fri."`
	MonthDay int    `short:"m" help:"Repeat monthly on this day (1-31), clamped to month end."`
	Until    string `help:"Last date of the series (YYYY-MM-DD). Defaults to one year."`
}

func (c *TaskAddCmd) Validate() error {
	patterns := 0
	if c.Every != 0 {
		patterns++
		if c.Every < 1 {
			return fmt.Errorf("--every must be at least 1")
		}
	}
	if c.Weekdays != "" {
		patterns++
	}
	if c.MonthDay != 0 {
		patterns++
		if c.MonthDay < 1 || c.MonthDay > 31 {
			return fmt.Errorf("--month-day must be between 1 and 31")
		}
	}
	if patterns > 1 {
		return fmt.Errorf("use only one of --every, --weekdays or --month-day")
	}
	if c.Until != "" && patterns == 0 {
		return fmt.Errorf("--until requires a recurrence")
	}
	return nil
}

// spec builds the recurrence for the command, nil for a one-off task.
func (c *TaskAddCmd) spec(ctx *cli.Context) (*recurrence.Spec, error) {
	var pattern recurrence.Pattern
	switch {
	case c.Every != 0:
		pattern = recurrence.Simple(c.Every, recurrence.Unit(c.Unit))
	case c.Weekdays != "":
		days, err := recurrence.ParseWeekdays(c.Weekdays)
		if err != nil {
			return nil, err
		}
		pattern = recurrence.DaysOfWeek(days...)
	case c.MonthDay != 0:
		pattern = recurrence.DayOfMonth(c.MonthDay)
	default:
		return nil, nil
	}

	start, err := ctx.ParseDay(c.Date)
	if err != nil {
		return nil, err
	}
	spec := &recurrence.Spec{Start: start, Pattern: pattern}
	if c.Until != "" {
		end, err := ctx.ParseDay(c.Until)
		if err != nil {
			return nil, err
		}
		spec.End = &end
	}
	return spec, nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	spec, err := c.spec(ctx)
	if err != nil {
		return err
	}

	tasks, err := ctx.Tracker.AddTask(c.Title, day, spec)
	if err != nil {
		return err
	}

	if spec == nil {
		ctx.Printf("Added task: %s on %s (ID: %s)\n", tasks[0].Title, tasks[0].Date, tasks[0].ID)
		return nil
	}
	ctx.Printf("Added %d occurrences of %s, %s from %s to %s\n",
		len(tasks), tasks[0].Title, recurrence.Describe(spec.Pattern), tasks[0].Date, tasks[len(tasks)-1].Date)
	return nil
}
