package sqlstore

import (
	"database/sql"
	"fmt"

	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.query(s.db, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", apperrors.ErrNotFound)
	}

	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.inTx(func(tx *sql.Tx) error {
		for key, value := range models.SettingsToMap(settings) {
			if _, err := s.exec(tx, `
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT (key) DO UPDATE SET value = excluded.value
			`, key, value); err != nil {
				return fmt.Errorf("saving setting %s: %w", key, err)
			}
		}
		return nil
	})
}
