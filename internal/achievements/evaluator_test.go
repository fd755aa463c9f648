package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/ascend/internal/models"
)

func def(id string, typ models.CriteriaType, value, reward int) models.Achievement {
	return models.Achievement{
		ID:       id,
		Name:     id,
		XPReward: reward,
		Criteria: models.UnlockCriteria{Type: typ, Value: value},
	}
}

func ids(defs []models.Achievement) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.ID)
	}
	return out
}

func TestSatisfied(t *testing.T) {
	stats := Stats{TotalCompletions: 10, CurrentStreak: 3, TotalXP: 500, CompletedGoals: 1}

	tests := []struct {
		name string
		def  models.Achievement
		want bool
	}{
		{"completions met", def("a", models.CriteriaHabitCompletions, 10, 0), true},
		{"completions short", def("a", models.CriteriaHabitCompletions, 11, 0), false},
		{"streak met", def("a", models.CriteriaStreakDays, 3, 0), true},
		{"streak short", def("a", models.CriteriaStreakDays, 7, 0), false},
		{"xp met", def("a", models.CriteriaXPMilestone, 500, 0), true},
		{"xp short", def("a", models.CriteriaXPMilestone, 501, 0), false},
		{"goals met", def("a", models.CriteriaGoalCompletion, 1, 0), true},
		{"goals short", def("a", models.CriteriaGoalCompletion, 2, 0), false},
		{"level completion never evaluated", def("a", models.CriteriaLevelCompletion, 0, 0), false},
		{"unknown type", def("a", "mystery", 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfied(tt.def, stats))
		})
	}
}

func TestEvaluate_SkipsUnlocked(t *testing.T) {
	defs := []models.Achievement{
		def("first", models.CriteriaHabitCompletions, 1, 10),
		def("ten", models.CriteriaHabitCompletions, 10, 10),
		def("streak", models.CriteriaStreakDays, 2, 10),
	}
	unlocked := UnlockedSet([]models.AchievementUnlock{{AchievementID: "first"}})

	got := Evaluate(Stats{TotalCompletions: 12, CurrentStreak: 1}, defs, unlocked)
	assert.Equal(t, []string{"ten"}, ids(got))
	assert.Len(t, unlocked, 1, "Evaluate must not modify the unlocked set")
}

func TestScan_FixedPointThroughXPReward(t *testing.T) {
	defs := []models.Achievement{
		def("xp-100", models.CriteriaXPMilestone, 100, 0),
		def("first", models.CriteriaHabitCompletions, 1, 60),
	}
	stats := Stats{TotalCompletions: 1, TotalXP: 50}

	got := Scan(stats, defs, map[string]bool{}, func(d models.Achievement) Stats {
		stats.TotalXP += d.XPReward
		return stats
	})

	// "first" unlocks in pass one and its reward crosses 100 XP, so
	// "xp-100" unlocks in pass two of the same call.
	assert.Equal(t, []string{"first", "xp-100"}, ids(got))
}

func TestScan_ChainWithinOnePass(t *testing.T) {
	defs := []models.Achievement{
		def("first", models.CriteriaHabitCompletions, 1, 60),
		def("xp-100", models.CriteriaXPMilestone, 100, 100),
		def("xp-200", models.CriteriaXPMilestone, 200, 0),
	}
	stats := Stats{TotalCompletions: 1, TotalXP: 50}

	got := Scan(stats, defs, nil, func(d models.Achievement) Stats {
		stats.TotalXP += d.XPReward
		return stats
	})
	assert.Equal(t, []string{"first", "xp-100", "xp-200"}, ids(got))
}

func TestScan_RerunDoesNotReunlock(t *testing.T) {
	defs := []models.Achievement{def("first", models.CriteriaHabitCompletions, 1, 60)}
	stats := Stats{TotalCompletions: 3}

	first := Scan(stats, defs, map[string]bool{}, nil)
	require.Len(t, first, 1)

	unlocked := map[string]bool{"first": true}
	assert.Empty(t, Scan(stats, defs, unlocked, nil))
}

func TestScan_Terminates(t *testing.T) {
	var defs []models.Achievement
	for i := 0; i < 20; i++ {
		defs = append(defs, def(string(rune('a'+i)), models.CriteriaXPMilestone, i*10, 10))
	}
	stats := Stats{}
	calls := 0

	got := Scan(stats, defs, nil, func(d models.Achievement) Stats {
		calls++
		stats.TotalXP += d.XPReward
		return stats
	})
	assert.Len(t, got, 20)
	assert.Equal(t, 20, calls)
}

func TestScan_NothingSatisfied(t *testing.T) {
	defs := []models.Achievement{def("far", models.CriteriaXPMilestone, 10_000, 0)}
	assert.Empty(t, Scan(Stats{TotalXP: 10}, defs, nil, nil))
}
