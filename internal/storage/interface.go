// Package storage defines the persistence contract shared by the SQLite and
// PostgreSQL backends.
package storage

import (
	"time"

	"github.com/julianstephens/ascend/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Catalog
	// SaveCatalog upserts the catalog. Templates no longer listed are removed
	// unless a goal instance or progress record still references them.
	SaveCatalog(goals []models.GoalTemplate, habits []models.HabitTemplate, achievements []models.Achievement) error
	GetGoalTemplates() ([]models.GoalTemplate, error)
	GetGoalTemplate(id string) (models.GoalTemplate, error)
	GetHabitTemplates(goalTemplateID string) ([]models.HabitTemplate, error)
	GetAchievements() ([]models.Achievement, error)

	// Goals and progress
	GetGoalInstances(userID string) ([]models.GoalInstance, error)
	GetGoalInstance(id string) (models.GoalInstance, error)
	// GetActiveGoal returns errors.ErrNotFound when the user has no active goal.
	GetActiveGoal(userID string) (models.GoalInstance, error)
	GetHabitProgress(goalInstanceID string) ([]models.HabitProgress, error)

	// Completions
	GetCompletionsForDay(userID, day string) ([]models.HabitCompletion, error)
	GetRecentCompletions(userID string, limit int) ([]models.HabitCompletion, error)
	CountCompletions(userID string) (int, error)
	CountCompletedGoals(userID string) (int, error)

	// XP and achievements
	// GetLedger returns errors.ErrNotFound before the user's first award.
	GetLedger(userID string) (models.XPLedger, error)
	GetTransactions(userID string, limit int) ([]models.XPTransaction, error)
	GetUnlocks(userID string) ([]models.AchievementUnlock, error)

	// Tasks
	// GetTasks returns tasks dated within [from, to]; an empty bound is open.
	GetTasks(userID, from, to string) ([]models.Task, error)
	GetTask(id string) (models.Task, error)
	CompleteTask(id string, at time.Time) error
	DeleteTask(id string) error

	// ApplyChangeSet writes every record in cs in a single transaction.
	// A unique-key collision on a completion yields errors.ErrDuplicateCompletion.
	ApplyChangeSet(cs models.ChangeSet) error

	// Utils
	GetConfigPath() string
}
