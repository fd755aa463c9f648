package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

func (s *Store) GetLedger(userID string) (models.XPLedger, error) {
	var l models.XPLedger
	err := s.queryRow(s.db, `
		SELECT user_id, total_xp, current_level, current_streak, best_streak, last_activity_date
		FROM xp_ledger WHERE user_id = ?
	`, userID).Scan(&l.UserID, &l.TotalXP, &l.CurrentLevel, &l.CurrentStreak, &l.BestStreak, &l.LastActivityDate)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("xp ledger for %s: %w", userID, apperrors.ErrNotFound)
	}
	return l, err
}

func (s *Store) upsertLedger(tx *sql.Tx, l models.XPLedger) error {
	_, err := s.exec(tx, `
		INSERT INTO xp_ledger (user_id, total_xp, current_level, current_streak, best_streak, last_activity_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			current_level = excluded.current_level,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_activity_date = excluded.last_activity_date
	`, l.UserID, l.TotalXP, l.CurrentLevel, l.CurrentStreak, l.BestStreak, l.LastActivityDate)
	return err
}

func (s *Store) GetTransactions(userID string, limit int) ([]models.XPTransaction, error) {
	rows, err := s.query(s.db, `
		SELECT id, user_id, type, amount, source, created_at
		FROM xp_transactions WHERE user_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.XPTransaction
	for rows.Next() {
		var tx models.XPTransaction
		var typ, createdAt string
		if err := rows.Scan(&tx.ID, &tx.UserID, &typ, &tx.Amount, &tx.Source, &createdAt); err != nil {
			return nil, err
		}
		tx.Type = models.TransactionType(typ)
		if tx.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at for transaction %s: %w", tx.ID, err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *Store) insertTransaction(tx *sql.Tx, t models.XPTransaction) error {
	_, err := s.exec(tx, `
		INSERT INTO xp_transactions (id, user_id, type, amount, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, string(t.Type), t.Amount, t.Source, formatTime(t.CreatedAt))
	return err
}

func (s *Store) GetUnlocks(userID string) ([]models.AchievementUnlock, error) {
	rows, err := s.query(s.db, `
		SELECT user_id, achievement_id, unlocked_at
		FROM achievement_unlocks WHERE user_id = ?
		ORDER BY unlocked_at, achievement_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AchievementUnlock
	for rows.Next() {
		var u models.AchievementUnlock
		var at string
		if err := rows.Scan(&u.UserID, &u.AchievementID, &at); err != nil {
			return nil, err
		}
		if u.UnlockedAt, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("parsing unlocked_at for %s: %w", u.AchievementID, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) insertUnlock(tx *sql.Tx, u models.AchievementUnlock) error {
	_, err := s.exec(tx, `
		INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
	`, u.UserID, u.AchievementID, formatTime(u.UnlockedAt))
	return err
}
