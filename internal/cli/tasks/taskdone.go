package tasks

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/cli"
)

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID to mark done."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}
	if task.CompletedAt != nil {
		ctx.Printf("Task already done: %s\n", task.Title)
		return nil
	}
	if err := ctx.Tracker.CompleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	ctx.Printf("Done: %s (%s)\n", task.Title, task.Date)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}
	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.Printf("Deleted task: %s (ID: %s)\n", task.Title, c.ID)
	return nil
}
