package entities

import (
	"time"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncRun records one end-to-end sync invocation: how many items were
// retrieved, formatted and uploaded, and the library version cursor the
// next run should resume from.
type SyncRun struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Status         SyncStatus `gorm:"size:20" json:"status"`
	Since          int        `json:"since"`
	LibraryVersion int        `json:"library_version"`
	Retrieved      int        `json:"retrieved"`
	Formatted      int        `json:"formatted"`
	FormatFailed   int        `json:"format_failed"`
	Uploaded       int        `json:"uploaded"`
	UploadFailed   int        `json:"upload_failed"`
	Error          string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
