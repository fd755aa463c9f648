// Package habits implements the per-habit progress state machine and the
// level-unlock gating of a goal instance.
package habits

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ascend/internal/constants"
	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

// NewProgressRecords creates one progress record per habit template of a goal.
// Level-1 habits start available, everything else starts locked.
func NewProgressRecords(goal models.GoalInstance, templates []models.HabitTemplate, now time.Time) []models.HabitProgress {
	records := make([]models.HabitProgress, 0, len(templates))
	for _, tmpl := range templates {
		p := models.HabitProgress{
			ID:              uuid.New().String(),
			UserID:          goal.UserID,
			GoalInstanceID:  goal.ID,
			HabitTemplateID: tmpl.ID,
			Level:           tmpl.Level,
			Status:          models.HabitLocked,
		}
		if tmpl.Level <= 1 {
			unlockedAt := now
			p.Status = models.HabitAvailable
			p.UnlockedAt = &unlockedAt
		}
		records = append(records, p)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Level < records[j].Level
	})
	return records
}

// MissingProgressRecords creates records for the templates a goal has no
// progress for yet. Records at or below the goal's current level start available.
func MissingProgressRecords(goal models.GoalInstance, templates []models.HabitTemplate, existing []models.HabitProgress, now time.Time) []models.HabitProgress {
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.HabitTemplateID] = true
	}
	var missing []models.HabitTemplate
	for _, tmpl := range templates {
		if !have[tmpl.ID] {
			missing = append(missing, tmpl)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	records := NewProgressRecords(goal, missing, now)
	for i := range records {
		if records[i].Level <= goal.CurrentLevel && records[i].Status == models.HabitLocked {
			unlockAt(records, i, now)
		}
	}
	return records
}

// Advance moves a record to status if that is a step forward. It never demotes.
func Advance(p *models.HabitProgress, status models.HabitStatus) bool {
	if status.Rank() <= p.Status.Rank() {
		return false
	}
	p.Status = status
	return true
}

// CanComplete reports whether a record accepts a completion.
func CanComplete(p models.HabitProgress) error {
	switch p.Status {
	case models.HabitAvailable, models.HabitInProgress, models.HabitCompleted:
		return nil
	case models.HabitLocked:
		return apperrors.InvalidState("habit %s is locked", p.HabitTemplateID)
	default:
		return apperrors.InvalidState("habit %s has unknown status %q", p.HabitTemplateID, p.Status)
	}
}

// RecordCompletion applies one completion worth xp to the record: counters,
// per-habit streak and mastery status. A mastered habit stays completed.
func RecordCompletion(p *models.HabitProgress, xp int, day string) error {
	if err := CanComplete(*p); err != nil {
		return err
	}

	p.CompletedCount++
	p.CurrentStreak++
	if p.CurrentStreak > p.BestStreak {
		p.BestStreak = p.CurrentStreak
	}
	p.TotalXPEarned += xp
	p.LastCompletedDate = day

	if p.CompletedCount >= constants.MasteryThreshold {
		Advance(p, models.HabitCompleted)
	} else {
		Advance(p, models.HabitInProgress)
	}
	return nil
}

// LevelRatio returns completed/total for the records at level, and the total.
func LevelRatio(records []models.HabitProgress, level int) (float64, int) {
	total, completed := 0, 0
	for _, p := range records {
		if p.Level != level {
			continue
		}
		total++
		if p.Status == models.HabitCompleted {
			completed++
		}
	}
	if total == 0 {
		return 1, 0
	}
	return float64(completed) / float64(total), total
}

// UnlockResult reports what CheckLevelUnlock changed.
type UnlockResult struct {
	LevelsAdvanced int
	// Unlocked holds the indexes into the records slice that moved from locked to available.
	Unlocked []int
}

// CheckLevelUnlock advances the goal while the share of completed habits at its
// current level reaches the unlock ratio and a next level exists. Records at each
// level reached flip from locked to available. Levels without habits count as
// done. Running it again on an unchanged state is a no-op.
func CheckLevelUnlock(goal *models.GoalInstance, tmpl models.GoalTemplate, records []models.HabitProgress, now time.Time) UnlockResult {
	var res UnlockResult
	if goal.CurrentLevel < 1 {
		goal.CurrentLevel = 1
	}

	for goal.CurrentLevel+1 <= tmpl.TotalLevels {
		ratio, _ := LevelRatio(records, goal.CurrentLevel)
		if ratio < constants.LevelUnlockRatio {
			break
		}
		goal.CurrentLevel++
		res.LevelsAdvanced++
		res.Unlocked = append(res.Unlocked, unlockLevel(records, goal.CurrentLevel, now)...)
	}

	// Catch up records below the goal level that are still locked.
	for i := range records {
		if records[i].Level <= goal.CurrentLevel && records[i].Status == models.HabitLocked {
			res.Unlocked = append(res.Unlocked, unlockAt(records, i, now))
		}
	}
	return res
}

func unlockLevel(records []models.HabitProgress, level int, now time.Time) []int {
	var idx []int
	for i := range records {
		if records[i].Level == level && records[i].Status == models.HabitLocked {
			idx = append(idx, unlockAt(records, i, now))
		}
	}
	return idx
}

func unlockAt(records []models.HabitProgress, i int, now time.Time) int {
	unlockedAt := now
	records[i].Status = models.HabitAvailable
	records[i].UnlockedAt = &unlockedAt
	return i
}

// GoalComplete reports whether the goal is on its final level and every habit
// record is completed.
func GoalComplete(goal models.GoalInstance, tmpl models.GoalTemplate, records []models.HabitProgress) bool {
	if goal.CurrentLevel < tmpl.TotalLevels || len(records) == 0 {
		return false
	}
	for _, p := range records {
		if p.Status != models.HabitCompleted {
			return false
		}
	}
	return true
}
