package models

// CompletionCommand asks the engine to record a habit completion for today.
type CompletionCommand struct {
	UserID          string `json:"user_id" validate:"required"`
	HabitTemplateID string `json:"habit_template_id" validate:"required"`
	Rating          *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes           string `json:"notes,omitempty" validate:"max=2000"`
	ElapsedMinutes  *int   `json:"elapsed_minutes,omitempty" validate:"omitempty,min=0"`
}

// CompletionResult is what the caller sees after a completion attempt.
type CompletionResult struct {
	Accepted                  bool          `json:"accepted"`
	Reason                    string        `json:"reason,omitempty"`
	XPAwarded                 int           `json:"xp_awarded"`
	NewLevel                  *int          `json:"new_level,omitempty"`
	NewlyUnlockedAchievements []Achievement `json:"newly_unlocked_achievements"`
	NewlyUnlockedHabits       []string      `json:"newly_unlocked_habits"`
	GoalLevel                 int           `json:"goal_level"`
	GoalCompleted             bool          `json:"goal_completed"`
	HabitStatus               HabitStatus   `json:"habit_status,omitempty"`
}
