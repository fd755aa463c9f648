package models

import "time"

// Task is one materialized dated to-do. Tasks expanded from the same
// recurrence share a SeriesID.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SeriesID    string     `json:"series_id,omitempty"`
	Title       string     `json:"title"`
	Date        string     `json:"date"` // YYYY-MM-DD format
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
