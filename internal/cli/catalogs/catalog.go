package catalogs

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/catalog"
	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/validation"
)

type CatalogCmd struct {
	Sync CatalogSyncCmd `cmd:"" help:"Write the catalog into storage."`
	Show CatalogShowCmd `cmd:"" default:"1" help:"Show the catalog goals, habits and achievements."`
}

type CatalogSyncCmd struct {
	Force bool `help:"Sync even if storage already holds this catalog version."`
}

func (c *CatalogSyncCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	synced, err := catalog.Sync(ctx.Store, cat, c.Force)
	if err != nil {
		return err
	}
	if !synced {
		ctx.Printf("Catalog v%d is already in storage. Use --force to re-sync.\n", cat.Version)
		return nil
	}
	ctx.Printf("Synced catalog v%d: %d goals, %d habits, %d achievements\n",
		cat.Version, len(cat.Goals), len(cat.HabitTemplates()), len(cat.Achievements))
	return nil
}

type CatalogShowCmd struct {
	Check bool `help:"Also report catalog warnings such as empty levels."`
}

func (c *CatalogShowCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	source := "built-in"
	if ctx.CatalogPath != "" {
		source = ctx.CatalogPath
	}
	ctx.Println(cli.TitleStyle.Render(fmt.Sprintf("Catalog v%d", cat.Version)) + " " + cli.MutedStyle.Render(source))

	for _, g := range cat.Goals {
		ctx.Printf("\n%s %s\n", g.Title, cli.MutedStyle.Render(fmt.Sprintf("(%s, %d levels)", g.ID, g.TotalLevels)))
		for level := 1; level <= g.TotalLevels; level++ {
			ctx.Printf("  Level %d\n", level)
			for _, h := range g.Habits {
				if h.Level == level {
					ctx.Printf("    %-22s %-30s %s\n", h.ID, h.Title, cli.XPStyle.Render(fmt.Sprintf("%dXP", h.XPReward)))
				}
			}
		}
	}

	ctx.Println()
	ctx.Println(cli.TitleStyle.Render("Achievements"))
	for _, a := range cat.Achievements {
		ctx.Printf("  %-18s %-20s %s >= %d\n", a.ID, a.Name, a.Criteria.Type, a.Criteria.Value)
	}

	if c.Check {
		vr := validation.ValidateCatalog(cat.GoalTemplates(), cat.HabitTemplates(), cat.Achievements)
		ctx.Println()
		ctx.Println(vr.FormatReport())
	}
	return nil
}
