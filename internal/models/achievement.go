package models

import "time"

type CriteriaType string

const (
	CriteriaHabitCompletions CriteriaType = "habit_completions"
	CriteriaStreakDays       CriteriaType = "streak_days"
	CriteriaXPMilestone      CriteriaType = "xp_milestone"
	CriteriaGoalCompletion   CriteriaType = "goal_completion"
	CriteriaLevelCompletion  CriteriaType = "level_completion"
)

type UnlockCriteria struct {
	Type  CriteriaType `json:"type" yaml:"type" validate:"required,oneof=habit_completions streak_days xp_milestone goal_completion level_completion"`
	Value int          `json:"value" yaml:"value" validate:"gte=0"`
}

// Achievement is a catalog definition.
type Achievement struct {
	ID          string         `json:"id" yaml:"id" validate:"required"`
	Name        string         `json:"name" yaml:"name" validate:"required"`
	Description string         `json:"description,omitempty" yaml:"description"`
	Icon        string         `json:"icon,omitempty" yaml:"icon"`
	XPReward    int            `json:"xp_reward" yaml:"xp_reward" validate:"gte=0"`
	Criteria    UnlockCriteria `json:"unlock_criteria" yaml:"unlock_criteria"`
}

// AchievementUnlock is an immutable record; an achievement unlocks at most once per user.
type AchievementUnlock struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
