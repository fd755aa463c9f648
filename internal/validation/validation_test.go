package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/ascend/internal/models"
)

func intp(n int) *int { return &n }

func TestStructCompletionCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmd     models.CompletionCommand
		wantErr string
	}{
		{"valid", models.CompletionCommand{UserID: "u", HabitTemplateID: "h"}, ""},
		{"valid with extras", models.CompletionCommand{UserID: "u", HabitTemplateID: "h", Rating: intp(5), ElapsedMinutes: intp(0)}, ""},
		{"missing habit", models.CompletionCommand{UserID: "u"}, "habit_template_id is required"},
		{"missing user", models.CompletionCommand{HabitTemplateID: "h"}, "user_id is required"},
		{"rating too low", models.CompletionCommand{UserID: "u", HabitTemplateID: "h", Rating: intp(0)}, "rating must be at least 1"},
		{"rating too high", models.CompletionCommand{UserID: "u", HabitTemplateID: "h", Rating: intp(6)}, "rating must be at most 5"},
		{"negative minutes", models.CompletionCommand{UserID: "u", HabitTemplateID: "h", ElapsedMinutes: intp(-1)}, "elapsed_minutes must be at least 0"},
		{"notes too long", models.CompletionCommand{UserID: "u", HabitTemplateID: "h", Notes: strings.Repeat("x", 2001)}, "notes must be at most 2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.cmd)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), "invalid CompletionCommand") {
				t.Errorf("error = %q, want type prefix", err)
			}
		})
	}
}

func TestStructNestedCriteria(t *testing.T) {
	a := models.Achievement{ID: "x", Name: "X", Criteria: models.UnlockCriteria{Type: "bogus", Value: 1}}
	err := Struct(a)
	if err == nil || !strings.Contains(err.Error(), "unlock_criteria.type must be one of") {
		t.Errorf("expected criteria type error, got %v", err)
	}
}

func validCatalog() ([]models.GoalTemplate, []models.HabitTemplate, []models.Achievement) {
	goals := []models.GoalTemplate{{ID: "fitness", Title: "Fitness", TotalLevels: 2}}
	habits := []models.HabitTemplate{
		{ID: "walk", GoalTemplateID: "fitness", Title: "Walk", Level: 1, XPReward: 10},
		{ID: "run", GoalTemplateID: "fitness", Title: "Run", Level: 2, XPReward: 20},
	}
	achievements := []models.Achievement{
		{ID: "first", Name: "First", Criteria: models.UnlockCriteria{Type: models.CriteriaHabitCompletions, Value: 1}},
	}
	return goals, habits, achievements
}

func conflictTypes(vr ValidationResult) []ConflictType {
	var out []ConflictType
	for _, c := range vr.Conflicts {
		out = append(out, c.Type)
	}
	return out
}

func hasType(vr ValidationResult, typ ConflictType) bool {
	for _, c := range vr.Conflicts {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func TestValidateCatalogValid(t *testing.T) {
	vr := ValidateCatalog(validCatalog())
	if vr.HasConflicts() {
		t.Errorf("expected no conflicts, got %v", conflictTypes(vr))
	}
	if vr.Err() != nil {
		t.Errorf("Err() = %v", vr.Err())
	}
	if vr.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", vr.FormatReport())
	}
}

func TestValidateCatalogConflicts(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement)
		want      ConflictType
		wantError bool
	}{
		{"duplicate goal", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			*g = append(*g, (*g)[0])
		}, ConflictDuplicateID, true},
		{"duplicate habit", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			*h = append(*h, (*h)[0])
		}, ConflictDuplicateID, true},
		{"duplicate achievement", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			*a = append(*a, (*a)[0])
		}, ConflictDuplicateID, true},
		{"habit level beyond goal", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			(*h)[1].Level = 3
		}, ConflictLevelOutOfRange, true},
		{"unknown goal", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			(*h)[0].GoalTemplateID = "nope"
		}, ConflictUnknownGoal, true},
		{"goal without habits", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			*g = append(*g, models.GoalTemplate{ID: "empty", Title: "Empty", TotalLevels: 1})
		}, ConflictEmptyGoal, true},
		{"empty level", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			(*g)[0].TotalLevels = 3
		}, ConflictEmptyLevel, false},
		{"level_completion criteria", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			(*a)[0].Criteria.Type = models.CriteriaLevelCompletion
		}, ConflictUnevaluated, false},
		{"missing title", func(g *[]models.GoalTemplate, h *[]models.HabitTemplate, a *[]models.Achievement) {
			(*g)[0].Title = ""
		}, ConflictInvalidStructTags, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, h, a := validCatalog()
			tt.mutate(&g, &h, &a)
			vr := ValidateCatalog(g, h, a)
			if !hasType(vr, tt.want) {
				t.Fatalf("expected %s, got %v", tt.want, conflictTypes(vr))
			}
			if vr.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", vr.HasErrors(), tt.wantError)
			}
			if (vr.Err() != nil) != tt.wantError {
				t.Errorf("Err() = %v", vr.Err())
			}
		})
	}
}

func TestValidateGoals(t *testing.T) {
	templates := map[string]models.GoalTemplate{"fitness": {ID: "fitness", TotalLevels: 2}}
	habitIDs := map[string]bool{"walk": true}

	t.Run("clean", func(t *testing.T) {
		goals := []models.GoalInstance{{ID: "g1", GoalTemplateID: "fitness", Status: models.GoalActive, CurrentLevel: 1}}
		progress := map[string][]models.HabitProgress{"g1": {{HabitTemplateID: "walk"}}}
		vr := ValidateGoals(goals, templates, progress, habitIDs)
		if vr.HasConflicts() {
			t.Errorf("unexpected conflicts: %s", vr.FormatReport())
		}
	})

	t.Run("problems", func(t *testing.T) {
		goals := []models.GoalInstance{
			{ID: "g1", GoalTemplateID: "fitness", Status: models.GoalActive, CurrentLevel: 3},
			{ID: "g2", GoalTemplateID: "fitness", Status: models.GoalActive, CurrentLevel: 1},
			{ID: "g3", GoalTemplateID: "gone", Status: models.GoalPaused, CurrentLevel: 1},
		}
		progress := map[string][]models.HabitProgress{"g2": {{HabitTemplateID: "swim"}}}
		vr := ValidateGoals(goals, templates, progress, habitIDs)

		for _, want := range []ConflictType{ConflictMultipleActive, ConflictLevelBeyondGoal, ConflictMissingTemplate} {
			if !hasType(vr, want) {
				t.Errorf("expected %s in %v", want, conflictTypes(vr))
			}
		}
		if !strings.Contains(vr.FormatReport(), "[error]") {
			t.Errorf("report missing severity: %s", vr.FormatReport())
		}
	})
}
