package config

// Default paths for local state
const (
	// DefaultDatabasePath is the default path for the sync-run history database
	DefaultDatabasePath = "./zotero-readwise.db"

	// DefaultFailedItemsDir is where failure logs and rejected-upload
	// responses are written
	DefaultFailedItemsDir = "./failed_items"
)
