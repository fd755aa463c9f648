// Package validation checks commands, catalogs and stored goal state.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/ascend/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validate returns the shared validator, configured to report json field names.
func Validate() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v's struct tags and flattens any failures into one error.
func Struct(v any) error {
	err := Validate().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid %s: %s", typeName(v), strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func typeName(v any) string {
	name := fmt.Sprintf("%T", v)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID       ConflictType = "duplicate_id"
	ConflictLevelOutOfRange   ConflictType = "level_out_of_range"
	ConflictEmptyGoal         ConflictType = "empty_goal"
	ConflictEmptyLevel        ConflictType = "empty_level"
	ConflictUnknownGoal       ConflictType = "unknown_goal"
	ConflictUnevaluated       ConflictType = "unevaluated_criteria"
	ConflictMultipleActive    ConflictType = "multiple_active_goals"
	ConflictLevelBeyondGoal   ConflictType = "level_beyond_goal"
	ConflictMissingTemplate   ConflictType = "missing_template"
	ConflictInvalidStructTags ConflictType = "invalid_fields"
)

// Severity separates problems that block a catalog from ones worth a warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Conflict represents a detected problem in the catalog or stored state
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Description string
	Items       []string // ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) add(typ ConflictType, sev Severity, desc string, items ...string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: typ, Severity: sev, Description: desc, Items: items})
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasErrors returns true if any conflict is an error rather than a warning.
func (vr *ValidationResult) HasErrors() bool {
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns the error-severity conflicts as one error, or nil.
func (vr *ValidationResult) Err() error {
	var msgs []string
	for _, c := range vr.Conflicts {
		if c.Severity == SeverityError {
			msgs = append(msgs, c.Description)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, c.Description)
	}
	return b.String()
}

// ValidateCatalog checks struct tags on every entry plus the cross-entry rules:
// unique ids, habits pointing at a known goal, levels within 1..total_levels.
func ValidateCatalog(goals []models.GoalTemplate, habits []models.HabitTemplate, achievements []models.Achievement) ValidationResult {
	var vr ValidationResult

	goalByID := make(map[string]models.GoalTemplate, len(goals))
	for _, g := range goals {
		if err := Struct(g); err != nil {
			vr.add(ConflictInvalidStructTags, SeverityError, err.Error(), g.ID)
		}
		if _, dup := goalByID[g.ID]; dup {
			vr.add(ConflictDuplicateID, SeverityError, fmt.Sprintf("goal id %q is used more than once", g.ID), g.ID)
		}
		goalByID[g.ID] = g
	}

	seenHabit := map[string]bool{}
	levels := map[string]map[int]int{}
	for _, h := range habits {
		if err := Struct(h); err != nil {
			vr.add(ConflictInvalidStructTags, SeverityError, err.Error(), h.ID)
		}
		if seenHabit[h.ID] {
			vr.add(ConflictDuplicateID, SeverityError, fmt.Sprintf("habit id %q is used more than once", h.ID), h.ID)
		}
		seenHabit[h.ID] = true

		g, ok := goalByID[h.GoalTemplateID]
		if !ok {
			vr.add(ConflictUnknownGoal, SeverityError, fmt.Sprintf("habit %q belongs to unknown goal %q", h.ID, h.GoalTemplateID), h.ID)
			continue
		}
		if h.Level < 1 || h.Level > g.TotalLevels {
			vr.add(ConflictLevelOutOfRange, SeverityError,
				fmt.Sprintf("habit %q has level %d, goal %q has %d levels", h.ID, h.Level, g.ID, g.TotalLevels), h.ID, g.ID)
		}
		if levels[g.ID] == nil {
			levels[g.ID] = map[int]int{}
		}
		levels[g.ID][h.Level]++
	}

	for _, g := range goals {
		if len(levels[g.ID]) == 0 {
			vr.add(ConflictEmptyGoal, SeverityError, fmt.Sprintf("goal %q has no habits", g.ID), g.ID)
			continue
		}
		for lvl := 1; lvl <= g.TotalLevels; lvl++ {
			if levels[g.ID][lvl] == 0 {
				vr.add(ConflictEmptyLevel, SeverityWarning,
					fmt.Sprintf("goal %q has no habits at level %d; that level unlocks immediately", g.ID, lvl), g.ID)
			}
		}
	}

	seenAch := map[string]bool{}
	for _, a := range achievements {
		if err := Struct(a); err != nil {
			vr.add(ConflictInvalidStructTags, SeverityError, err.Error(), a.ID)
		}
		if seenAch[a.ID] {
			vr.add(ConflictDuplicateID, SeverityError, fmt.Sprintf("achievement id %q is used more than once", a.ID), a.ID)
		}
		seenAch[a.ID] = true
		if a.Criteria.Type == models.CriteriaLevelCompletion {
			vr.add(ConflictUnevaluated, SeverityWarning,
				fmt.Sprintf("achievement %q uses level_completion, which never unlocks", a.ID), a.ID)
		}
	}

	return vr
}

// ValidateGoals checks stored goal instances and their progress against the
// catalog: at most one active goal, levels within the template, and no progress
// for habits the catalog no longer knows.
func ValidateGoals(goals []models.GoalInstance, templates map[string]models.GoalTemplate, progress map[string][]models.HabitProgress, habitIDs map[string]bool) ValidationResult {
	var vr ValidationResult

	var active []string
	for _, g := range goals {
		if g.Status == models.GoalActive {
			active = append(active, g.ID)
		}
		tmpl, ok := templates[g.GoalTemplateID]
		if !ok {
			vr.add(ConflictMissingTemplate, SeverityError, fmt.Sprintf("goal %s references unknown template %q", g.ID, g.GoalTemplateID), g.ID)
			continue
		}
		if g.CurrentLevel > tmpl.TotalLevels {
			vr.add(ConflictLevelBeyondGoal, SeverityError,
				fmt.Sprintf("goal %s is at level %d but %q has %d levels", g.ID, g.CurrentLevel, tmpl.ID, tmpl.TotalLevels), g.ID)
		}
		for _, p := range progress[g.ID] {
			if !habitIDs[p.HabitTemplateID] {
				vr.add(ConflictMissingTemplate, SeverityWarning,
					fmt.Sprintf("goal %s tracks habit %q which is not in the catalog", g.ID, p.HabitTemplateID), g.ID, p.HabitTemplateID)
			}
		}
	}
	if len(active) > 1 {
		sort.Strings(active)
		vr.add(ConflictMultipleActive, SeverityError,
			fmt.Sprintf("%d goals are active at once: %s", len(active), strings.Join(active, ", ")), active...)
	}

	return vr
}
