package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

func (s *Store) SaveCatalog(goals []models.GoalTemplate, habits []models.HabitTemplate, achievements []models.Achievement) error {
	return s.inTx(func(tx *sql.Tx) error {
		keepGoals := make(map[string]bool, len(goals))
		for i, g := range goals {
			keepGoals[g.ID] = true
			if _, err := s.exec(tx, `
				INSERT INTO goal_templates (id, title, description, category, total_levels, position)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					title = excluded.title,
					description = excluded.description,
					category = excluded.category,
					total_levels = excluded.total_levels,
					position = excluded.position
			`, g.ID, g.Title, g.Description, g.Category, g.TotalLevels, i); err != nil {
				return fmt.Errorf("saving goal template %s: %w", g.ID, err)
			}
		}

		keepHabits := make(map[string]bool, len(habits))
		for i, h := range habits {
			keepHabits[h.ID] = true
			if _, err := s.exec(tx, `
				INSERT INTO habit_templates (id, goal_template_id, title, description, level, xp_reward, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					goal_template_id = excluded.goal_template_id,
					title = excluded.title,
					description = excluded.description,
					level = excluded.level,
					xp_reward = excluded.xp_reward,
					position = excluded.position
			`, h.ID, h.GoalTemplateID, h.Title, h.Description, h.Level, h.XPReward, i); err != nil {
				return fmt.Errorf("saving habit template %s: %w", h.ID, err)
			}
		}

		keepAchievements := make(map[string]bool, len(achievements))
		for i, a := range achievements {
			keepAchievements[a.ID] = true
			if _, err := s.exec(tx, `
				INSERT INTO achievements (id, name, description, icon, xp_reward, criteria_type, criteria_value, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					icon = excluded.icon,
					xp_reward = excluded.xp_reward,
					criteria_type = excluded.criteria_type,
					criteria_value = excluded.criteria_value,
					position = excluded.position
			`, a.ID, a.Name, a.Description, a.Icon, a.XPReward, string(a.Criteria.Type), a.Criteria.Value, i); err != nil {
				return fmt.Errorf("saving achievement %s: %w", a.ID, err)
			}
		}

		if err := s.pruneUnreferenced(tx, "habit_templates",
			"SELECT 1 FROM habit_progress WHERE habit_template_id = ?", keepHabits); err != nil {
			return err
		}
		if err := s.pruneUnreferenced(tx, "goal_templates",
			"SELECT 1 FROM goal_instances WHERE goal_template_id = ?", keepGoals); err != nil {
			return err
		}
		return s.pruneUnreferenced(tx, "achievements", "", keepAchievements)
	})
}

// pruneUnreferenced deletes rows of table whose id is not in keep. When refQuery
// is set, rows it finds a reference for are left alone.
func (s *Store) pruneUnreferenced(tx *sql.Tx, table, refQuery string, keep map[string]bool) error {
	rows, err := s.query(tx, "SELECT id FROM "+table)
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range stale {
		if refQuery != "" {
			var one int
			err := s.queryRow(tx, refQuery+" LIMIT 1", id).Scan(&one)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
		if _, err := s.exec(tx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
			return fmt.Errorf("pruning %s %s: %w", table, id, err)
		}
	}
	return nil
}

func (s *Store) GetGoalTemplates() ([]models.GoalTemplate, error) {
	rows, err := s.query(s.db, `
		SELECT id, title, description, category, total_levels
		FROM goal_templates ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GoalTemplate
	for rows.Next() {
		var g models.GoalTemplate
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.TotalLevels); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) GetGoalTemplate(id string) (models.GoalTemplate, error) {
	var g models.GoalTemplate
	err := s.queryRow(s.db, `
		SELECT id, title, description, category, total_levels
		FROM goal_templates WHERE id = ?
	`, id).Scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.TotalLevels)
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("goal template %s: %w", id, apperrors.ErrNotFound)
	}
	return g, err
}

func (s *Store) GetHabitTemplates(goalTemplateID string) ([]models.HabitTemplate, error) {
	rows, err := s.query(s.db, `
		SELECT id, goal_template_id, title, description, level, xp_reward
		FROM habit_templates WHERE goal_template_id = ?
		ORDER BY level, position, id
	`, goalTemplateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HabitTemplate
	for rows.Next() {
		var h models.HabitTemplate
		if err := rows.Scan(&h.ID, &h.GoalTemplateID, &h.Title, &h.Description, &h.Level, &h.XPReward); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) GetAchievements() ([]models.Achievement, error) {
	rows, err := s.query(s.db, `
		SELECT id, name, description, icon, xp_reward, criteria_type, criteria_value
		FROM achievements ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var a models.Achievement
		var typ string
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.XPReward, &typ, &a.Criteria.Value); err != nil {
			return nil, err
		}
		a.Criteria.Type = models.CriteriaType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}
