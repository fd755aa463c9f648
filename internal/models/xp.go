package models

import "time"

type TransactionType string

const (
	TxHabitCompletion   TransactionType = "habit_completion"
	TxLevelBonus        TransactionType = "level_bonus"
	TxAchievementUnlock TransactionType = "achievement_unlock"
)

// XPLedger is the per-user XP and streak aggregate.
type XPLedger struct {
	UserID           string `json:"user_id"`
	TotalXP          int    `json:"total_xp"`
	CurrentLevel     int    `json:"current_level"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	LastActivityDate string `json:"last_activity_date,omitempty"` // YYYY-MM-DD format
}

// XPTransaction records a single award applied to a ledger.
type XPTransaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      TransactionType `json:"type"`
	Amount    int             `json:"amount"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}
