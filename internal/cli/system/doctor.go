package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/ascend/internal/cli"
	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/progression"
	"github.com/julianstephens/ascend/internal/utils"
	"github.com/julianstephens/ascend/internal/validation"
)

// errWarning marks a check result that should not fail the run.
var errWarning = errors.New("warning")

type check struct {
	name    string
	needsDB bool
	run     func(*cli.Context) error
}

var checks = []check{
	{"Database reachable", false, checkDBReachable},
	{"Schema version", true, checkSchemaVersion},
	{"Catalog", true, checkCatalog},
	{"Goal integrity", true, checkGoalIntegrity},
	{"XP ledger", true, checkLedger},
	{"Timezone", true, checkTimezone},
	{"Clock", false, checkClock},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := false
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if c.name == checks[0].name {
				dbReachable = true
			}
		case errors.Is(err, errWarning):
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'ascend migrate')", st.Current, st.Latest)
	}
	return nil
}

func checkCatalog(ctx *cli.Context) error {
	goals, err := ctx.Store.GetGoalTemplates()
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		return fmt.Errorf("catalog is empty (run 'ascend catalog sync')")
	}

	var habits []models.HabitTemplate
	for _, g := range goals {
		hs, err := ctx.Store.GetHabitTemplates(g.ID)
		if err != nil {
			return err
		}
		habits = append(habits, hs...)
	}
	defs, err := ctx.Store.GetAchievements()
	if err != nil {
		return err
	}
	vr := validation.ValidateCatalog(goals, habits, defs)
	if err := vr.Err(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	cat, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if settings.CatalogVersion < cat.Version {
		return fmt.Errorf("%w: stored catalog v%d is older than v%d (run 'ascend catalog sync')", errWarning, settings.CatalogVersion, cat.Version)
	}
	return nil
}

func checkGoalIntegrity(ctx *cli.Context) error {
	userID, _, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	goals, err := ctx.Store.GetGoalInstances(userID)
	if err != nil {
		return err
	}

	templates := make(map[string]models.GoalTemplate)
	habitIDs := make(map[string]bool)
	progress := make(map[string][]models.HabitProgress)
	tmpls, err := ctx.Store.GetGoalTemplates()
	if err != nil {
		return err
	}
	for _, t := range tmpls {
		templates[t.ID] = t
		hs, err := ctx.Store.GetHabitTemplates(t.ID)
		if err != nil {
			return err
		}
		for _, h := range hs {
			habitIDs[h.ID] = true
		}
	}
	for _, g := range goals {
		if progress[g.ID], err = ctx.Store.GetHabitProgress(g.ID); err != nil {
			return err
		}
	}

	vr := validation.ValidateGoals(goals, templates, progress, habitIDs)
	if err := vr.Err(); err != nil {
		return err
	}
	if vr.HasConflicts() {
		return fmt.Errorf("%w: %s", errWarning, vr.FormatReport())
	}
	return nil
}

func checkLedger(ctx *cli.Context) error {
	userID, _, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	ledger, err := ctx.Store.GetLedger(userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if want := progression.LevelFor(ledger.TotalXP); ledger.CurrentLevel != want {
		return fmt.Errorf("ledger level %d does not match %d XP (expected level %d)", ledger.CurrentLevel, ledger.TotalXP, want)
	}
	if ledger.BestStreak < ledger.CurrentStreak {
		return fmt.Errorf("best streak %d is below current streak %d", ledger.BestStreak, ledger.CurrentStreak)
	}
	return nil
}

func checkClock(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q is not a valid IANA name", settings.Timezone)
	}
	return nil
}
