package engine

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/habits"
	"github.com/julianstephens/ascend/internal/models"
)

// StartGoal creates a goal instance for tmpl along with one progress record per
// habit. A user has at most one active goal, and a template already in progress
// or paused must be resumed rather than started again.
func (e *Engine) StartGoal(userID string, existing []models.GoalInstance, tmpl models.GoalTemplate, habitTemplates []models.HabitTemplate, today string, now time.Time) (models.GoalInstance, models.ChangeSet, error) {
	for _, g := range existing {
		if g.Status == models.GoalActive {
			return models.GoalInstance{}, models.ChangeSet{}, apperrors.InvalidState("goal %s is already active", g.GoalTemplateID)
		}
		if g.GoalTemplateID == tmpl.ID && g.Status == models.GoalPaused {
			return models.GoalInstance{}, models.ChangeSet{}, apperrors.InvalidState("goal %s is paused, resume it instead", tmpl.ID)
		}
	}
	if len(habitTemplates) == 0 {
		return models.GoalInstance{}, models.ChangeSet{}, apperrors.InvalidState("goal %s has no habits", tmpl.ID)
	}

	goal := models.GoalInstance{
		ID:             uuid.New().String(),
		UserID:         userID,
		GoalTemplateID: tmpl.ID,
		Status:         models.GoalActive,
		CurrentLevel:   1,
		StartDate:      today,
	}
	records := habits.NewProgressRecords(goal, habitTemplates, now)
	// A catalog may leave level 1 empty; gate from there so the goal never
	// starts with nothing to do.
	habits.CheckLevelUnlock(&goal, tmpl, records, now)

	return goal, models.ChangeSet{
		Goals:    []models.GoalInstance{goal},
		Progress: records,
	}, nil
}

// PauseGoal moves an active goal to paused.
func (e *Engine) PauseGoal(goal models.GoalInstance) (models.GoalInstance, models.ChangeSet, error) {
	if goal.Status != models.GoalActive {
		return goal, models.ChangeSet{}, apperrors.InvalidState("cannot pause goal %s: it is %s", goal.GoalTemplateID, goal.Status)
	}
	goal.Status = models.GoalPaused
	return goal, models.ChangeSet{Goals: []models.GoalInstance{goal}}, nil
}

// ResumeGoal moves a paused goal back to active, provided no other goal is active.
func (e *Engine) ResumeGoal(goal models.GoalInstance, existing []models.GoalInstance) (models.GoalInstance, models.ChangeSet, error) {
	if goal.Status != models.GoalPaused {
		return goal, models.ChangeSet{}, apperrors.InvalidState("cannot resume goal %s: it is %s", goal.GoalTemplateID, goal.Status)
	}
	for _, g := range existing {
		if g.ID != goal.ID && g.Status == models.GoalActive {
			return goal, models.ChangeSet{}, apperrors.InvalidState("goal %s is already active", g.GoalTemplateID)
		}
	}
	goal.Status = models.GoalActive
	return goal, models.ChangeSet{Goals: []models.GoalInstance{goal}}, nil
}
