package progression

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ascend/internal/constants"
	"github.com/julianstephens/ascend/internal/models"
	"github.com/julianstephens/ascend/internal/utils"
)

// Award is a pending XP grant.
type Award struct {
	Type   models.TransactionType
	Amount int
	Source string
}

// AwardResult describes what ApplyAwards did to a ledger.
type AwardResult struct {
	Ledger       models.XPLedger
	Transactions []models.XPTransaction
	// LevelsReached lists every level newly entered, in order.
	LevelsReached []int
}

// XPAwarded sums every transaction, level bonuses included.
func (r AwardResult) XPAwarded() int {
	total := 0
	for _, tx := range r.Transactions {
		total += tx.Amount
	}
	return total
}

// NewLedger returns the ledger a user starts with before their first award.
func NewLedger(userID string) models.XPLedger {
	return models.XPLedger{UserID: userID, CurrentLevel: 1}
}

// ApplyAwards adds each award to the ledger. Entering a new level queues a
// level bonus which is processed on the same work-list, so a bonus that crosses
// another threshold queues another bonus. Every level is entered at most once,
// which bounds the loop.
func ApplyAwards(ledger models.XPLedger, awards []Award, now time.Time) AwardResult {
	res := AwardResult{Ledger: ledger}
	if res.Ledger.CurrentLevel < 1 {
		res.Ledger.CurrentLevel = LevelFor(res.Ledger.TotalXP)
	}

	queue := append([]Award(nil), awards...)
	for len(queue) > 0 {
		award := queue[0]
		queue = queue[1:]
		if award.Amount <= 0 {
			continue
		}

		res.Ledger.TotalXP += award.Amount
		res.Transactions = append(res.Transactions, models.XPTransaction{
			ID:        uuid.New().String(),
			UserID:    res.Ledger.UserID,
			Type:      award.Type,
			Amount:    award.Amount,
			Source:    award.Source,
			CreatedAt: now,
		})

		newLevel := LevelFor(res.Ledger.TotalXP)
		for lvl := res.Ledger.CurrentLevel + 1; lvl <= newLevel; lvl++ {
			res.LevelsReached = append(res.LevelsReached, lvl)
			queue = append(queue, Award{
				Type:   models.TxLevelBonus,
				Amount: constants.LevelBonusXP,
				Source: fmt.Sprintf("level-%d", lvl),
			})
		}
		if newLevel > res.Ledger.CurrentLevel {
			res.Ledger.CurrentLevel = newLevel
		}
	}

	return res
}

// AdvanceStreak applies the daily streak rule for an activity on today (YYYY-MM-DD).
// Activity on the same day leaves the streak alone, activity on the following
// day extends it, and anything else starts a new streak of 1.
func AdvanceStreak(ledger models.XPLedger, today string) (models.XPLedger, error) {
	switch {
	case ledger.LastActivityDate == "":
		ledger.CurrentStreak = 1
	default:
		gap, err := utils.DaysBetween(ledger.LastActivityDate, today)
		if err != nil {
			return ledger, err
		}
		switch {
		case gap < 0:
			// activity dated before the last one recorded
			return ledger, nil
		case gap == 0:
			// already counted today
		case gap == 1:
			ledger.CurrentStreak++
		default:
			ledger.CurrentStreak = 1
		}
	}

	if ledger.CurrentStreak > ledger.BestStreak {
		ledger.BestStreak = ledger.CurrentStreak
	}
	ledger.LastActivityDate = today
	return ledger, nil
}
