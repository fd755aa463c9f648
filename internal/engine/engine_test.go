package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/habits"
	"github.com/julianstephens/ascend/internal/models"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const today = "2026-03-10"

func achievement(id string, typ models.CriteriaType, value, reward int) models.Achievement {
	return models.Achievement{ID: id, Name: id, XPReward: reward, Criteria: models.UnlockCriteria{Type: typ, Value: value}}
}

// fixture builds a two-level goal: five habits at level 1, two at level 2,
// each worth 10 XP.
func fixture() Snapshot {
	tmpl := models.GoalTemplate{ID: "fitness", Title: "Fitness", TotalLevels: 2}
	var hts []models.HabitTemplate
	for i := 1; i <= 5; i++ {
		hts = append(hts, models.HabitTemplate{ID: fmt.Sprintf("l1-%d", i), GoalTemplateID: tmpl.ID, Title: "habit", Level: 1, XPReward: 10})
	}
	for i := 1; i <= 2; i++ {
		hts = append(hts, models.HabitTemplate{ID: fmt.Sprintf("l2-%d", i), GoalTemplateID: tmpl.ID, Title: "habit", Level: 2, XPReward: 10})
	}
	goal := models.GoalInstance{ID: "g1", UserID: "u1", GoalTemplateID: tmpl.ID, Status: models.GoalActive, CurrentLevel: 1, StartDate: "2026-03-01"}

	return Snapshot{
		UserID:         "u1",
		Today:          today,
		Ledger:         models.XPLedger{UserID: "u1", CurrentLevel: 1},
		Goal:           goal,
		GoalTemplate:   tmpl,
		HabitTemplates: hts,
		Progress:       habits.NewProgressRecords(goal, hts, now.AddDate(0, 0, -9)),
	}
}

func setCount(snap *Snapshot, habitID string, count int) {
	for i := range snap.Progress {
		p := &snap.Progress[i]
		if p.HabitTemplateID != habitID {
			continue
		}
		p.CompletedCount = count
		p.Status = models.HabitInProgress
		if count >= 5 {
			p.Status = models.HabitCompleted
		}
	}
}

func complete(habitID string) models.CompletionCommand {
	return models.CompletionCommand{UserID: "u1", HabitTemplateID: habitID}
}

func TestCompleteHabit_FirstCompletion(t *testing.T) {
	snap := fixture()
	snap.Achievements = []models.Achievement{
		achievement("first-step", models.CriteriaHabitCompletions, 1, 50),
		achievement("centurion", models.CriteriaXPMilestone, 100, 25),
	}

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)

	res := out.Result
	assert.True(t, res.Accepted)
	assert.Equal(t, 60, res.XPAwarded)
	assert.Nil(t, res.NewLevel)
	require.Len(t, res.NewlyUnlockedAchievements, 1)
	assert.Equal(t, "first-step", res.NewlyUnlockedAchievements[0].ID)
	assert.Empty(t, res.NewlyUnlockedHabits)
	assert.Equal(t, models.HabitInProgress, res.HabitStatus)
	assert.Equal(t, 1, res.GoalLevel)

	ch := out.Changes
	require.Len(t, ch.Completions, 1)
	assert.Equal(t, today, ch.Completions[0].Date)
	assert.Equal(t, 10, ch.Completions[0].XPEarned)
	require.Len(t, ch.Progress, 1)
	assert.Equal(t, 1, ch.Progress[0].CompletedCount)
	assert.Equal(t, today, ch.Progress[0].LastCompletedDate)
	require.NotNil(t, ch.Ledger)
	assert.Equal(t, 60, ch.Ledger.TotalXP)
	assert.Equal(t, 1, ch.Ledger.CurrentStreak)
	assert.Equal(t, today, ch.Ledger.LastActivityDate)
	require.Len(t, ch.Transactions, 2)
	assert.Equal(t, models.TxHabitCompletion, ch.Transactions[0].Type)
	assert.Equal(t, "l1-1", ch.Transactions[0].Source)
	assert.Equal(t, models.TxAchievementUnlock, ch.Transactions[1].Type)
	assert.Equal(t, "first-step", ch.Transactions[1].Source)
	require.Len(t, ch.Unlocks, 1)
	assert.Empty(t, ch.Goals, "goal unchanged")
}

func TestCompleteHabit_DoesNotMutateSnapshot(t *testing.T) {
	snap := fixture()
	_, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Progress[0].CompletedCount)
	assert.Equal(t, models.HabitAvailable, snap.Progress[0].Status)
	assert.Equal(t, 0, snap.Ledger.TotalXP)
}

func TestCompleteHabit_DuplicateRejected(t *testing.T) {
	snap := fixture()
	snap.CompletedToday = []string{"l1-1"}

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.ErrorIs(t, err, apperrors.ErrDuplicateCompletion)
	assert.True(t, out.Changes.IsEmpty())

	// another habit on the same day is fine
	_, err = New().CompleteHabit(snap, complete("l1-2"), now)
	require.NoError(t, err)
}

func TestCompleteHabit_InvalidState(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		habitID string
	}{
		{"locked habit", func(*Snapshot) {}, "l2-1"},
		{"paused goal", func(s *Snapshot) { s.Goal.Status = models.GoalPaused }, "l1-1"},
		{"completed goal", func(s *Snapshot) { s.Goal.Status = models.GoalCompleted }, "l1-1"},
		{"no goal", func(s *Snapshot) { s.Goal = models.GoalInstance{} }, "l1-1"},
		{"unknown habit", func(*Snapshot) {}, "nope"},
		{"missing progress", func(s *Snapshot) { s.Progress = s.Progress[1:] }, "l1-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fixture()
			tt.mutate(&snap)
			_, err := New().CompleteHabit(snap, complete(tt.habitID), now)
			require.ErrorIs(t, err, apperrors.ErrInvalidState)
		})
	}
}

func TestCompleteHabit_MasteryAndLevelUnlock(t *testing.T) {
	snap := fixture()
	setCount(&snap, "l1-1", 5)
	setCount(&snap, "l1-2", 5)
	setCount(&snap, "l1-3", 5)
	setCount(&snap, "l1-4", 4)

	out, err := New().CompleteHabit(snap, complete("l1-4"), now)
	require.NoError(t, err)

	res := out.Result
	assert.Equal(t, models.HabitCompleted, res.HabitStatus)
	assert.Equal(t, 2, res.GoalLevel)
	assert.ElementsMatch(t, []string{"l2-1", "l2-2"}, res.NewlyUnlockedHabits)
	assert.False(t, res.GoalCompleted)

	require.Len(t, out.Changes.Goals, 1)
	assert.Equal(t, 2, out.Changes.Goals[0].CurrentLevel)
	assert.Len(t, out.Changes.Progress, 3, "completed habit plus two unlocked")
	for _, p := range out.Changes.Progress {
		if p.Level == 2 {
			assert.Equal(t, models.HabitAvailable, p.Status)
			assert.NotNil(t, p.UnlockedAt)
		}
	}
}

func TestCompleteHabit_BelowUnlockRatio(t *testing.T) {
	snap := fixture()
	setCount(&snap, "l1-1", 5)
	setCount(&snap, "l1-2", 5)
	setCount(&snap, "l1-3", 4)

	out, err := New().CompleteHabit(snap, complete("l1-3"), now)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Result.GoalLevel)
	assert.Empty(t, out.Result.NewlyUnlockedHabits)
	assert.Empty(t, out.Changes.Goals)
}

func TestCompleteHabit_LevelUpBonus(t *testing.T) {
	snap := fixture()
	snap.Ledger.TotalXP = 95

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)

	require.NotNil(t, out.Result.NewLevel)
	assert.Equal(t, 2, *out.Result.NewLevel)
	assert.Equal(t, 60, out.Result.XPAwarded)
	assert.Equal(t, 155, out.Changes.Ledger.TotalXP)
	require.Len(t, out.Changes.Transactions, 2)
	assert.Equal(t, models.TxLevelBonus, out.Changes.Transactions[1].Type)
	assert.Equal(t, "level-2", out.Changes.Transactions[1].Source)
}

func TestCompleteHabit_AchievementSeesBonusXP(t *testing.T) {
	snap := fixture()
	snap.Ledger.TotalXP = 90
	snap.Achievements = []models.Achievement{
		achievement("xp-150", models.CriteriaXPMilestone, 150, 30),
		achievement("xp-180", models.CriteriaXPMilestone, 180, 0),
	}

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)

	// 90 + 10 crosses level 2, +50 bonus = 150, +30 reward = 180
	assert.Equal(t, 180, out.Changes.Ledger.TotalXP)
	require.Len(t, out.Result.NewlyUnlockedAchievements, 2)
	assert.Equal(t, "xp-150", out.Result.NewlyUnlockedAchievements[0].ID)
	assert.Equal(t, "xp-180", out.Result.NewlyUnlockedAchievements[1].ID)
	assert.Len(t, out.Changes.Unlocks, 2)
}

func TestCompleteHabit_AlreadyUnlockedNotRepeated(t *testing.T) {
	snap := fixture()
	snap.Achievements = []models.Achievement{achievement("first-step", models.CriteriaHabitCompletions, 1, 50)}
	snap.Unlocked = []models.AchievementUnlock{{UserID: "u1", AchievementID: "first-step"}}
	snap.TotalCompletions = 3

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)
	assert.Empty(t, out.Result.NewlyUnlockedAchievements)
	assert.Empty(t, out.Changes.Unlocks)
	assert.Equal(t, 10, out.Result.XPAwarded)
}

func TestCompleteHabit_Streaks(t *testing.T) {
	tests := []struct {
		name       string
		lastActive string
		streak     int
		want       int
	}{
		{"consecutive day", "2026-03-09", 3, 4},
		{"same day", today, 3, 3},
		{"gap resets", "2026-03-07", 3, 1},
		{"first activity", "", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fixture()
			snap.Ledger.LastActivityDate = tt.lastActive
			snap.Ledger.CurrentStreak = tt.streak
			snap.Ledger.BestStreak = tt.streak

			out, err := New().CompleteHabit(snap, complete("l1-1"), now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Changes.Ledger.CurrentStreak)
			assert.GreaterOrEqual(t, out.Changes.Ledger.BestStreak, out.Changes.Ledger.CurrentStreak)
		})
	}
}

func TestCompleteHabit_StreakAchievement(t *testing.T) {
	snap := fixture()
	snap.Ledger.LastActivityDate = "2026-03-09"
	snap.Ledger.CurrentStreak = 6
	snap.Achievements = []models.Achievement{achievement("week", models.CriteriaStreakDays, 7, 0)}

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)
	require.Len(t, out.Result.NewlyUnlockedAchievements, 1)
	assert.Equal(t, "week", out.Result.NewlyUnlockedAchievements[0].ID)
}

func TestCompleteHabit_GoalCompletion(t *testing.T) {
	snap := fixture()
	snap.GoalTemplate.TotalLevels = 1
	snap.HabitTemplates = snap.HabitTemplates[:1]
	snap.Progress = snap.Progress[:1]
	setCount(&snap, "l1-1", 4)
	snap.Achievements = []models.Achievement{achievement("finisher", models.CriteriaGoalCompletion, 1, 100)}

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)

	assert.True(t, out.Result.GoalCompleted)
	require.Len(t, out.Changes.Goals, 1)
	assert.Equal(t, models.GoalCompleted, out.Changes.Goals[0].Status)
	require.NotNil(t, out.Changes.Goals[0].CompletedAt)
	require.Len(t, out.Result.NewlyUnlockedAchievements, 1)
	assert.Equal(t, "finisher", out.Result.NewlyUnlockedAchievements[0].ID)
}

func TestCompleteHabit_MasteredHabitStillAccepts(t *testing.T) {
	snap := fixture()
	setCount(&snap, "l1-1", 7)

	out, err := New().CompleteHabit(snap, complete("l1-1"), now)
	require.NoError(t, err)
	assert.Equal(t, models.HabitCompleted, out.Result.HabitStatus)
	assert.Equal(t, 8, out.Changes.Progress[0].CompletedCount)
}

func TestCompleteHabit_CarriesCommandDetails(t *testing.T) {
	snap := fixture()
	rating, minutes := 4, 25
	cmd := complete("l1-1")
	cmd.Rating = &rating
	cmd.ElapsedMinutes = &minutes
	cmd.Notes = "felt good"

	out, err := New().CompleteHabit(snap, cmd, now)
	require.NoError(t, err)
	c := out.Changes.Completions[0]
	require.NotNil(t, c.Rating)
	assert.Equal(t, 4, *c.Rating)
	require.NotNil(t, c.ElapsedMinutes)
	assert.Equal(t, 25, *c.ElapsedMinutes)
	assert.Equal(t, "felt good", c.Notes)
	assert.Equal(t, "g1", c.GoalInstanceID)
}
