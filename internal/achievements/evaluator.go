// Package achievements decides which catalog achievements a user has newly earned.
package achievements

import "github.com/julianstephens/ascend/internal/models"

// Stats are the aggregates achievement criteria are checked against.
type Stats struct {
	TotalCompletions int `json:"total_completions"`
	CurrentStreak    int `json:"current_streak"`
	TotalXP          int `json:"total_xp"`
	CompletedGoals   int `json:"completed_goals"`
}

// Satisfied reports whether stats meet an achievement's unlock criteria.
// level_completion is catalogued but never evaluated, so it never unlocks.
func Satisfied(def models.Achievement, stats Stats) bool {
	v := def.Criteria.Value
	switch def.Criteria.Type {
	case models.CriteriaHabitCompletions:
		return stats.TotalCompletions >= v
	case models.CriteriaStreakDays:
		return stats.CurrentStreak >= v
	case models.CriteriaXPMilestone:
		return stats.TotalXP >= v
	case models.CriteriaGoalCompletion:
		return stats.CompletedGoals >= v
	default:
		return false
	}
}

// UnlockedSet indexes unlock records by achievement id.
func UnlockedSet(unlocks []models.AchievementUnlock) map[string]bool {
	set := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		set[u.AchievementID] = true
	}
	return set
}

// Evaluate returns, in catalog order, the definitions that stats satisfy and
// that are not in unlocked. It does not modify unlocked.
func Evaluate(stats Stats, defs []models.Achievement, unlocked map[string]bool) []models.Achievement {
	var out []models.Achievement
	for _, def := range defs {
		if unlocked[def.ID] {
			continue
		}
		if Satisfied(def, stats) {
			out = append(out, def)
		}
	}
	return out
}

// Rewarder grants an achievement's reward and returns the stats that result.
type Rewarder func(def models.Achievement) Stats

// Scan unlocks achievements until a full pass finds nothing new. Each unlock is
// rewarded immediately, so an XP reward can satisfy an xp_milestone later in the
// same scan. Every pass but the last unlocks at least one definition, so the
// loop runs at most len(defs)+1 times. Returns the newly unlocked definitions in
// unlock order; unlocked is not modified.
func Scan(stats Stats, defs []models.Achievement, unlocked map[string]bool, reward Rewarder) []models.Achievement {
	seen := make(map[string]bool, len(unlocked)+len(defs))
	for id, ok := range unlocked {
		seen[id] = ok
	}

	var newly []models.Achievement
	for pass := 0; pass <= len(defs); pass++ {
		progressed := false
		for _, def := range defs {
			if seen[def.ID] || !Satisfied(def, stats) {
				continue
			}
			seen[def.ID] = true
			newly = append(newly, def)
			progressed = true
			if reward != nil {
				stats = reward(def)
			}
		}
		if !progressed {
			break
		}
	}
	return newly
}
