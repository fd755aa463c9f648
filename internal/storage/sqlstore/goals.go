package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

const goalColumns = "id, user_id, goal_template_id, status, current_level, start_date, completed_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (models.GoalInstance, error) {
	var g models.GoalInstance
	var status string
	var completedAt sql.NullString
	if err := row.Scan(&g.ID, &g.UserID, &g.GoalTemplateID, &status, &g.CurrentLevel, &g.StartDate, &completedAt); err != nil {
		return g, err
	}
	g.Status = models.GoalStatus(status)
	t, err := parseTimePtr(completedAt)
	if err != nil {
		return g, fmt.Errorf("parsing completed_at for goal %s: %w", g.ID, err)
	}
	g.CompletedAt = t
	return g, nil
}

func (s *Store) GetGoalInstances(userID string) ([]models.GoalInstance, error) {
	rows, err := s.query(s.db, "SELECT "+goalColumns+" FROM goal_instances WHERE user_id = ? ORDER BY start_date, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GoalInstance
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) GetGoalInstance(id string) (models.GoalInstance, error) {
	g, err := scanGoal(s.queryRow(s.db, "SELECT "+goalColumns+" FROM goal_instances WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("goal %s: %w", id, apperrors.ErrNotFound)
	}
	return g, err
}

func (s *Store) GetActiveGoal(userID string) (models.GoalInstance, error) {
	g, err := scanGoal(s.queryRow(s.db,
		"SELECT "+goalColumns+" FROM goal_instances WHERE user_id = ? AND status = ? ORDER BY start_date DESC LIMIT 1",
		userID, string(models.GoalActive)))
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("active goal: %w", apperrors.ErrNotFound)
	}
	return g, err
}

func (s *Store) CountCompletedGoals(userID string) (int, error) {
	var n int
	err := s.queryRow(s.db, "SELECT COUNT(*) FROM goal_instances WHERE user_id = ? AND status = ?",
		userID, string(models.GoalCompleted)).Scan(&n)
	return n, err
}

func (s *Store) upsertGoal(tx *sql.Tx, g models.GoalInstance) error {
	_, err := s.exec(tx, `
		INSERT INTO goal_instances (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			current_level = excluded.current_level,
			completed_at = excluded.completed_at
	`, g.ID, g.UserID, g.GoalTemplateID, string(g.Status), g.CurrentLevel, g.StartDate, formatTimePtr(g.CompletedAt))
	return err
}

const progressColumns = `id, user_id, goal_instance_id, habit_template_id, level, status,
	completed_count, current_streak, best_streak, total_xp_earned, unlocked_at, last_completed_date`

func (s *Store) GetHabitProgress(goalInstanceID string) ([]models.HabitProgress, error) {
	rows, err := s.query(s.db, "SELECT "+progressColumns+" FROM habit_progress WHERE goal_instance_id = ? ORDER BY level, habit_template_id", goalInstanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HabitProgress
	for rows.Next() {
		var p models.HabitProgress
		var status string
		var unlockedAt sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.GoalInstanceID, &p.HabitTemplateID, &p.Level, &status,
			&p.CompletedCount, &p.CurrentStreak, &p.BestStreak, &p.TotalXPEarned, &unlockedAt, &p.LastCompletedDate); err != nil {
			return nil, err
		}
		p.Status = models.HabitStatus(status)
		if p.UnlockedAt, err = parseTimePtr(unlockedAt); err != nil {
			return nil, fmt.Errorf("parsing unlocked_at for progress %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) upsertProgress(tx *sql.Tx, p models.HabitProgress) error {
	_, err := s.exec(tx, `
		INSERT INTO habit_progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			level = excluded.level,
			status = excluded.status,
			completed_count = excluded.completed_count,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			total_xp_earned = excluded.total_xp_earned,
			unlocked_at = excluded.unlocked_at,
			last_completed_date = excluded.last_completed_date
	`, p.ID, p.UserID, p.GoalInstanceID, p.HabitTemplateID, p.Level, string(p.Status),
		p.CompletedCount, p.CurrentStreak, p.BestStreak, p.TotalXPEarned, formatTimePtr(p.UnlockedAt), p.LastCompletedDate)
	return err
}
