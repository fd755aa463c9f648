package models

import "time"

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
)

// GoalTemplate is a catalog entry a user can pursue.
type GoalTemplate struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category"`
	TotalLevels int    `json:"total_levels" yaml:"total_levels" validate:"gte=1"`
}

// GoalInstance is a user's pursuit of one goal template.
type GoalInstance struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	GoalTemplateID string     `json:"goal_template_id"`
	Status         GoalStatus `json:"status"`
	CurrentLevel   int        `json:"current_level"`
	StartDate      string     `json:"start_date"` // YYYY-MM-DD format
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
