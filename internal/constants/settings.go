package constants

const (
	SettingUserID         = "user_id"
	SettingTimezone       = "timezone"
	SettingCatalogVersion = "catalog_version"

	DefaultTimezone = "Local" // Use system local timezone by default
)
