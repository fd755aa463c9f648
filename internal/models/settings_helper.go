package models

import (
	"fmt"

	"github.com/julianstephens/ascend/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingUserID:
			settings.UserID = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingCatalogVersion:
			if _, err := fmt.Sscanf(value, "%d", &settings.CatalogVersion); err != nil {
				return Settings{}, fmt.Errorf("parsing catalog_version: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingUserID:         settings.UserID,
		constants.SettingTimezone:       settings.Timezone,
		constants.SettingCatalogVersion: fmt.Sprintf("%d", settings.CatalogVersion),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.UserID == "" {
		settings.UserID = constants.DefaultUserID
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
