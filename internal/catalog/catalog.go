// Package catalog loads the versioned goal, habit and achievement catalog.
// A default catalog is compiled in; users may point --catalog at their own.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/ascend/internal/habits"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/validation"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Goal is a goal template together with its habits, as written in the catalog.
type Goal struct {
	models.GoalTemplate `yaml:",inline"`
	Habits              []models.HabitTemplate `yaml:"habits"`
}

type Catalog struct {
	Version      int                  `yaml:"version"`
	Goals        []Goal               `yaml:"goals"`
	Achievements []models.Achievement `yaml:"achievements"`
}

// Default returns the compiled-in catalog.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Load reads a catalog file, or the default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog. Unknown keys are rejected so typos
// surface instead of silently dropping data.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	for i := range c.Goals {
		for j := range c.Goals[i].Habits {
			c.Goals[i].Habits[j].GoalTemplateID = c.Goals[i].ID
		}
	}

	if err := c.Validate().Err(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Validate reports every problem with the catalog, warnings included.
func (c *Catalog) Validate() validation.ValidationResult {
	vr := validation.ValidateCatalog(c.GoalTemplates(), c.HabitTemplates(), c.Achievements)
	if c.Version < 1 {
		vr.Conflicts = append([]validation.Conflict{{
			Type:        validation.ConflictInvalidStructTags,
			Severity:    validation.SeverityError,
			Description: "catalog version must be at least 1",
		}}, vr.Conflicts...)
	}
	return vr
}

func (c *Catalog) GoalTemplates() []models.GoalTemplate {
	out := make([]models.GoalTemplate, 0, len(c.Goals))
	for _, g := range c.Goals {
		out = append(out, g.GoalTemplate)
	}
	return out
}

func (c *Catalog) HabitTemplates() []models.HabitTemplate {
	var out []models.HabitTemplate
	for _, g := range c.Goals {
		out = append(out, g.Habits...)
	}
	return out
}

// Store is the slice of storage.Provider that Sync needs.
type Store interface {
	SaveCatalog(goals []models.GoalTemplate, habits []models.HabitTemplate, achievements []models.Achievement) error
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
	GetGoalInstances(userID string) ([]models.GoalInstance, error)
	GetHabitProgress(goalInstanceID string) ([]models.HabitProgress, error)
	ApplyChangeSet(cs models.ChangeSet) error
}

// Sync writes the catalog into storage and records its version. It returns
// false without writing when storage already holds this version and force is off.
// Goals in progress get records for habits the new catalog added to them.
func Sync(store Store, c *Catalog, force bool) (bool, error) {
	settings, err := store.GetSettings()
	if err != nil {
		return false, fmt.Errorf("reading settings: %w", err)
	}
	if !force && settings.CatalogVersion == c.Version {
		return false, nil
	}

	if err := store.SaveCatalog(c.GoalTemplates(), c.HabitTemplates(), c.Achievements); err != nil {
		return false, fmt.Errorf("saving catalog: %w", err)
	}

	models.ApplyDefaultSettings(&settings)
	if err := backfill(store, c, settings.UserID, time.Now().UTC()); err != nil {
		return false, err
	}

	settings.CatalogVersion = c.Version
	if err := store.SaveSettings(settings); err != nil {
		return false, fmt.Errorf("recording catalog version: %w", err)
	}
	return true, nil
}

// backfill adds progress records for habits a running goal does not track yet.
func backfill(store Store, c *Catalog, userID string, now time.Time) error {
	goals, err := store.GetGoalInstances(userID)
	if err != nil {
		return fmt.Errorf("reading goals: %w", err)
	}

	byID := make(map[string]Goal, len(c.Goals))
	for _, g := range c.Goals {
		byID[g.ID] = g
	}

	var cs models.ChangeSet
	for _, goal := range goals {
		tmpl, ok := byID[goal.GoalTemplateID]
		if !ok || goal.Status == models.GoalCompleted {
			continue
		}
		existing, err := store.GetHabitProgress(goal.ID)
		if err != nil {
			return fmt.Errorf("reading progress for goal %s: %w", goal.ID, err)
		}
		cs.Progress = append(cs.Progress, habits.MissingProgressRecords(goal, tmpl.Habits, existing, now)...)
	}

	if cs.IsEmpty() {
		return nil
	}
	if err := store.ApplyChangeSet(cs); err != nil {
		return fmt.Errorf("adding progress for new habits: %w", err)
	}
	return nil
}
