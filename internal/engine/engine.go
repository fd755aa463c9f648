// Package engine composes the progression components into whole operations.
// Every operation is a pure function of a snapshot and a command: it returns the
// complete set of writes without touching storage, so callers can commit them
// atomically or not at all.
package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ascend/internal/achievements"
	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/habits"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/progression"
)

// Snapshot is the state a habit completion is evaluated against.
type Snapshot struct {
	UserID         string
	Today          string // YYYY-MM-DD in the user's timezone
	Ledger         models.XPLedger
	Goal           models.GoalInstance
	GoalTemplate   models.GoalTemplate
	HabitTemplates []models.HabitTemplate
	Progress       []models.HabitProgress
	// CompletedToday lists habit template ids already completed on Today.
	CompletedToday   []string
	TotalCompletions int
	CompletedGoals   int
	Achievements     []models.Achievement
	Unlocked         []models.AchievementUnlock
}

// Outcome is the result of an operation plus the writes it requires.
type Outcome struct {
	Result  models.CompletionResult
	Changes models.ChangeSet
}

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// CompleteHabit records a completion of cmd.HabitTemplateID on snap.Today.
func (e *Engine) CompleteHabit(snap Snapshot, cmd models.CompletionCommand, now time.Time) (Outcome, error) {
	if slices.Contains(snap.CompletedToday, cmd.HabitTemplateID) {
		return Outcome{}, fmt.Errorf("habit %s on %s: %w", cmd.HabitTemplateID, snap.Today, apperrors.ErrDuplicateCompletion)
	}
	if snap.Goal.ID == "" {
		return Outcome{}, apperrors.InvalidState("no goal instance for habit %s", cmd.HabitTemplateID)
	}
	if snap.Goal.Status != models.GoalActive {
		return Outcome{}, apperrors.InvalidState("goal %s is %s", snap.Goal.ID, snap.Goal.Status)
	}

	tmplIdx := slices.IndexFunc(snap.HabitTemplates, func(h models.HabitTemplate) bool {
		return h.ID == cmd.HabitTemplateID
	})
	if tmplIdx < 0 {
		return Outcome{}, apperrors.InvalidState("habit %s is not part of goal %s", cmd.HabitTemplateID, snap.Goal.ID)
	}
	tmpl := snap.HabitTemplates[tmplIdx]

	// Work on copies so the snapshot stays untouched if anything fails.
	goal := snap.Goal
	progress := slices.Clone(snap.Progress)
	idx := slices.IndexFunc(progress, func(p models.HabitProgress) bool {
		return p.HabitTemplateID == cmd.HabitTemplateID
	})
	if idx < 0 {
		return Outcome{}, apperrors.InvalidState("no progress record for habit %s", cmd.HabitTemplateID)
	}
	if err := habits.RecordCompletion(&progress[idx], tmpl.XPReward, snap.Today); err != nil {
		return Outcome{}, err
	}
	changed := map[int]bool{idx: true}

	completion := models.HabitCompletion{
		ID:              uuid.New().String(),
		UserID:          snap.UserID,
		HabitTemplateID: tmpl.ID,
		GoalInstanceID:  goal.ID,
		Date:            snap.Today,
		XPEarned:        tmpl.XPReward,
		Rating:          cmd.Rating,
		Notes:           cmd.Notes,
		ElapsedMinutes:  cmd.ElapsedMinutes,
		CreatedAt:       now,
	}

	// XP and the user-level streak.
	ledger := snap.Ledger
	if ledger.UserID == "" {
		ledger = progression.NewLedger(snap.UserID)
	}
	startLevel := ledger.CurrentLevel
	ledger, err := progression.AdvanceStreak(ledger, snap.Today)
	if err != nil {
		return Outcome{}, fmt.Errorf("advance streak: %w", err)
	}
	awarded := progression.ApplyAwards(ledger, []progression.Award{{
		Type:   models.TxHabitCompletion,
		Amount: tmpl.XPReward,
		Source: tmpl.ID,
	}}, now)
	ledger = awarded.Ledger
	txs := awarded.Transactions

	// Level gating and goal completion.
	unlock := habits.CheckLevelUnlock(&goal, snap.GoalTemplate, progress, now)
	var unlockedHabits []string
	for _, i := range unlock.Unlocked {
		changed[i] = true
		unlockedHabits = append(unlockedHabits, progress[i].HabitTemplateID)
	}
	completedGoals := snap.CompletedGoals
	goalCompleted := false
	if habits.GoalComplete(goal, snap.GoalTemplate, progress) {
		completedAt := now
		goal.Status = models.GoalCompleted
		goal.CompletedAt = &completedAt
		goalCompleted = true
		completedGoals++
	}

	// Achievements, rewarding each unlock through the same XP cascade.
	stats := achievements.Stats{
		TotalCompletions: snap.TotalCompletions + 1,
		CurrentStreak:    ledger.CurrentStreak,
		TotalXP:          ledger.TotalXP,
		CompletedGoals:   completedGoals,
	}
	newly := achievements.Scan(stats, snap.Achievements, achievements.UnlockedSet(snap.Unlocked), func(def models.Achievement) achievements.Stats {
		res := progression.ApplyAwards(ledger, []progression.Award{{
			Type:   models.TxAchievementUnlock,
			Amount: def.XPReward,
			Source: def.ID,
		}}, now)
		ledger = res.Ledger
		txs = append(txs, res.Transactions...)
		stats.TotalXP = ledger.TotalXP
		return stats
	})
	unlocks := make([]models.AchievementUnlock, 0, len(newly))
	for _, def := range newly {
		unlocks = append(unlocks, models.AchievementUnlock{
			UserID:        snap.UserID,
			AchievementID: def.ID,
			UnlockedAt:    now,
		})
	}

	changes := models.ChangeSet{
		Completions:  []models.HabitCompletion{completion},
		Ledger:       &ledger,
		Transactions: txs,
		Unlocks:      unlocks,
	}
	for i := range progress {
		if changed[i] {
			changes.Progress = append(changes.Progress, progress[i])
		}
	}
	if goal != snap.Goal {
		changes.Goals = []models.GoalInstance{goal}
	}

	result := models.CompletionResult{
		Accepted:                  true,
		XPAwarded:                 ledger.TotalXP - snap.Ledger.TotalXP,
		NewlyUnlockedAchievements: newly,
		NewlyUnlockedHabits:       unlockedHabits,
		GoalLevel:                 goal.CurrentLevel,
		GoalCompleted:             goalCompleted,
		HabitStatus:               progress[idx].Status,
	}
	if ledger.CurrentLevel > startLevel {
		lvl := ledger.CurrentLevel
		result.NewLevel = &lvl
	}
	if result.NewlyUnlockedAchievements == nil {
		result.NewlyUnlockedAchievements = []models.Achievement{}
	}
	if result.NewlyUnlockedHabits == nil {
		result.NewlyUnlockedHabits = []string{}
	}

	return Outcome{Result: result, Changes: changes}, nil
}
