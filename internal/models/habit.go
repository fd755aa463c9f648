package models

import "time"

type HabitStatus string

const (
	HabitLocked     HabitStatus = "locked"
	HabitAvailable  HabitStatus = "available"
	HabitInProgress HabitStatus = "in_progress"
	HabitCompleted  HabitStatus = "completed"
)

var habitStatusRank = map[HabitStatus]int{
	HabitLocked:     0,
	HabitAvailable:  1,
	HabitInProgress: 2,
	HabitCompleted:  3,
}

// Rank orders statuses along the only direction a record may move.
// Unknown statuses rank below locked.
func (s HabitStatus) Rank() int {
	if r, ok := habitStatusRank[s]; ok {
		return r
	}
	return -1
}

// HabitTemplate is a repeatable action belonging to one level of a goal template.
type HabitTemplate struct {
	ID             string `json:"id" yaml:"id" validate:"required"`
	GoalTemplateID string `json:"goal_template_id" yaml:"-"`
	Title          string `json:"title" yaml:"title" validate:"required"`
	Description    string `json:"description,omitempty" yaml:"description"`
	Level          int    `json:"level" yaml:"level" validate:"gte=1"`
	XPReward       int    `json:"xp_reward" yaml:"xp_reward" validate:"gte=0"`
}

// HabitProgress tracks one user's progress on one habit within a goal instance.
type HabitProgress struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	GoalInstanceID    string      `json:"goal_instance_id"`
	HabitTemplateID   string      `json:"habit_template_id"`
	Level             int         `json:"level"`
	Status            HabitStatus `json:"status"`
	CompletedCount    int         `json:"completed_count"`
	CurrentStreak     int         `json:"current_streak"`
	BestStreak        int         `json:"best_streak"`
	TotalXPEarned     int         `json:"total_xp_earned"`
	UnlockedAt        *time.Time  `json:"unlocked_at,omitempty"`
	LastCompletedDate string      `json:"last_completed_date,omitempty"` // YYYY-MM-DD format
}

// HabitCompletion is an immutable completion fact. At most one exists per
// (user, habit template, date).
type HabitCompletion struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	HabitTemplateID string    `json:"habit_template_id"`
	GoalInstanceID  string    `json:"goal_instance_id"`
	Date            string    `json:"date"` // YYYY-MM-DD format
	XPEarned        int       `json:"xp_earned"`
	Rating          *int      `json:"rating,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ElapsedMinutes  *int      `json:"elapsed_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
