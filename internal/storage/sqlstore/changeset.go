package sqlstore

import (
	"database/sql"
	"fmt"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

// ApplyChangeSet writes cs in one transaction. Any failure rolls back every write.
func (s *Store) ApplyChangeSet(cs models.ChangeSet) error {
	if cs.IsEmpty() {
		return nil
	}

	return s.inTx(func(tx *sql.Tx) error {
		for _, g := range cs.Goals {
			if err := s.upsertGoal(tx, g); err != nil {
				return fmt.Errorf("saving goal %s: %w", g.ID, err)
			}
		}
		for _, p := range cs.Progress {
			if err := s.upsertProgress(tx, p); err != nil {
				return fmt.Errorf("saving progress %s: %w", p.HabitTemplateID, err)
			}
		}
		for _, c := range cs.Completions {
			if err := s.insertCompletion(tx, c); err != nil {
				if s.isUnique(err) {
					return fmt.Errorf("habit %s on %s: %w", c.HabitTemplateID, c.Date, apperrors.ErrDuplicateCompletion)
				}
				return fmt.Errorf("saving completion: %w", err)
			}
		}
		if cs.Ledger != nil {
			if err := s.upsertLedger(tx, *cs.Ledger); err != nil {
				return fmt.Errorf("saving xp ledger: %w", err)
			}
		}
		for _, t := range cs.Transactions {
			if err := s.insertTransaction(tx, t); err != nil {
				return fmt.Errorf("saving xp transaction: %w", err)
			}
		}
		for _, u := range cs.Unlocks {
			if err := s.insertUnlock(tx, u); err != nil {
				if s.isUnique(err) {
					return apperrors.InvalidState("achievement %s already unlocked", u.AchievementID)
				}
				return fmt.Errorf("saving achievement unlock: %w", err)
			}
		}
		for _, t := range cs.Tasks {
			if err := s.insertTask(tx, t); err != nil {
				return fmt.Errorf("saving task: %w", err)
			}
		}
		return nil
	})
}
