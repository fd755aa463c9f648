package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/ascend/internal/models"
)

const completionColumns = `id, user_id, habit_template_id, goal_instance_id, date, xp_earned,
	rating, notes, elapsed_minutes, created_at`

func (s *Store) scanCompletions(rows *sql.Rows) ([]models.HabitCompletion, error) {
	defer rows.Close()

	var out []models.HabitCompletion
	for rows.Next() {
		var c models.HabitCompletion
		var rating, elapsed sql.NullInt64
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.HabitTemplateID, &c.GoalInstanceID, &c.Date, &c.XPEarned,
			&rating, &c.Notes, &elapsed, &createdAt); err != nil {
			return nil, err
		}
		c.Rating = intPtr(rating)
		c.ElapsedMinutes = intPtr(elapsed)
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for completion %s: %w", c.ID, err)
		}
		c.CreatedAt = t
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCompletionsForDay(userID, day string) ([]models.HabitCompletion, error) {
	rows, err := s.query(s.db, "SELECT "+completionColumns+" FROM habit_completions WHERE user_id = ? AND date = ? ORDER BY created_at", userID, day)
	if err != nil {
		return nil, err
	}
	return s.scanCompletions(rows)
}

func (s *Store) GetRecentCompletions(userID string, limit int) ([]models.HabitCompletion, error) {
	rows, err := s.query(s.db, "SELECT "+completionColumns+" FROM habit_completions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?", userID, limit)
	if err != nil {
		return nil, err
	}
	return s.scanCompletions(rows)
}

func (s *Store) CountCompletions(userID string) (int, error) {
	var n int
	err := s.queryRow(s.db, "SELECT COUNT(*) FROM habit_completions WHERE user_id = ?", userID).Scan(&n)
	return n, err
}

func (s *Store) insertCompletion(tx *sql.Tx, c models.HabitCompletion) error {
	_, err := s.exec(tx, `
		INSERT INTO habit_completions (`+completionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.HabitTemplateID, c.GoalInstanceID, c.Date, c.XPEarned,
		nullInt(c.Rating), c.Notes, nullInt(c.ElapsedMinutes), formatTime(c.CreatedAt))
	return err
}
