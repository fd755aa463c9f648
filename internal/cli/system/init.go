package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ascend/internal/catalog"
	"github.com/julianstephens/ascend/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing SQLite database before initialization."`
	Yes   bool `short:"y" help:"Skip the confirmation prompt for --force."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized ascend storage at: %s\n", ctx.Store.GetConfigPath())

	cat, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	synced, err := catalog.Sync(ctx.Store, cat, c.Force)
	if err != nil {
		return err
	}
	if synced {
		ctx.Printf("Seeded catalog v%d: %d goals, %d achievements\n", cat.Version, len(cat.Goals), len(cat.Achievements))
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if !c.Yes {
		if !ctx.Interactive {
			return errors.New("--force deletes all progress, pass --yes to confirm")
		}
		confirmed := false
		err := huh.NewConfirm().
			Title("Delete all progress?").
			Description(fmt.Sprintf("This removes %s and every goal, completion and achievement in it.", dbPath)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			return errors.New("init cancelled")
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}
