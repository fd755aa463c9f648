package models

// Settings represents application-wide settings
type Settings struct {
	UserID         string `json:"user_id"`         // owner of all progress records, e.g. "local"
	Timezone       string `json:"timezone"`        // IANA timezone name or "Local"; decides what "today" is
	CatalogVersion int    `json:"catalog_version"` // version of the catalog last synced into storage
}
