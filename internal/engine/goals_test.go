package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

func TestStartGoal(t *testing.T) {
	snap := fixture()

	goal, ch, err := New().StartGoal("u1", nil, snap.GoalTemplate, snap.HabitTemplates, today, now)
	require.NoError(t, err)

	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, models.GoalActive, goal.Status)
	assert.Equal(t, 1, goal.CurrentLevel)
	assert.Equal(t, today, goal.StartDate)
	require.Len(t, ch.Goals, 1)
	require.Len(t, ch.Progress, 7)
	for _, p := range ch.Progress {
		assert.Equal(t, goal.ID, p.GoalInstanceID)
		if p.Level == 1 {
			assert.Equal(t, models.HabitAvailable, p.Status)
		} else {
			assert.Equal(t, models.HabitLocked, p.Status)
		}
	}
}

func TestStartGoal_EmptyFirstLevel(t *testing.T) {
	snap := fixture()
	hts := snap.HabitTemplates[5:] // level 2 only

	goal, ch, err := New().StartGoal("u1", nil, snap.GoalTemplate, hts, today, now)
	require.NoError(t, err)
	assert.Equal(t, 2, goal.CurrentLevel)
	for _, p := range ch.Progress {
		assert.Equal(t, models.HabitAvailable, p.Status)
	}
}

func TestStartGoal_Rejected(t *testing.T) {
	snap := fixture()
	tests := []struct {
		name     string
		existing []models.GoalInstance
		habits   []models.HabitTemplate
	}{
		{"another goal active", []models.GoalInstance{{ID: "x", GoalTemplateID: "reading", Status: models.GoalActive}}, snap.HabitTemplates},
		{"same goal paused", []models.GoalInstance{{ID: "x", GoalTemplateID: "fitness", Status: models.GoalPaused}}, snap.HabitTemplates},
		{"no habits", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ch, err := New().StartGoal("u1", tt.existing, snap.GoalTemplate, tt.habits, today, now)
			require.ErrorIs(t, err, apperrors.ErrInvalidState)
			assert.True(t, ch.IsEmpty())
		})
	}
}

func TestStartGoal_AfterCompletedRun(t *testing.T) {
	snap := fixture()
	existing := []models.GoalInstance{{ID: "old", GoalTemplateID: "fitness", Status: models.GoalCompleted}}

	_, _, err := New().StartGoal("u1", existing, snap.GoalTemplate, snap.HabitTemplates, today, now)
	require.NoError(t, err)
}

func TestPauseResumeGoal(t *testing.T) {
	e := New()
	goal := fixture().Goal

	paused, ch, err := e.PauseGoal(goal)
	require.NoError(t, err)
	assert.Equal(t, models.GoalPaused, paused.Status)
	require.Len(t, ch.Goals, 1)

	_, _, err = e.PauseGoal(paused)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)

	resumed, ch, err := e.ResumeGoal(paused, []models.GoalInstance{paused})
	require.NoError(t, err)
	assert.Equal(t, models.GoalActive, resumed.Status)
	require.Len(t, ch.Goals, 1)

	_, _, err = e.ResumeGoal(resumed, nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestResumeGoal_OtherActive(t *testing.T) {
	goal := fixture().Goal
	goal.Status = models.GoalPaused
	other := models.GoalInstance{ID: "g2", GoalTemplateID: "reading", Status: models.GoalActive}

	_, _, err := New().ResumeGoal(goal, []models.GoalInstance{goal, other})
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestPauseGoal_Completed(t *testing.T) {
	goal := fixture().Goal
	goal.Status = models.GoalCompleted

	_, _, err := New().PauseGoal(goal)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}
