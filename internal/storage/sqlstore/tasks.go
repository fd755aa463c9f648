package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

const taskColumns = "id, user_id, series_id, title, date, created_at, completed_at"

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var createdAt string
	var completedAt sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.SeriesID, &t.Title, &t.Date, &createdAt, &completedAt); err != nil {
		return t, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, fmt.Errorf("parsing created_at for task %s: %w", t.ID, err)
	}
	if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return t, fmt.Errorf("parsing completed_at for task %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *Store) GetTasks(userID, from, to string) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ?"
	args := []any{userID}
	if from != "" {
		query += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY date, created_at, id"

	rows, err := s.query(s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.queryRow(s.db, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("task %s: %w", id, apperrors.ErrNotFound)
	}
	return t, err
}

func (s *Store) CompleteTask(id string, at time.Time) error {
	res, err := s.exec(s.db, "UPDATE tasks SET completed_at = ? WHERE id = ?", formatTime(at), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "task "+id)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.exec(s.db, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "task "+id)
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return nil
}

func (s *Store) insertTask(tx *sql.Tx, t models.Task) error {
	_, err := s.exec(tx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.SeriesID, t.Title, t.Date, formatTime(t.CreatedAt), formatTimePtr(t.CompletedAt))
	return err
}
