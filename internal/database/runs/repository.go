// Package runs provides database operations for sync-run history.
//
// The repository implements the syncer's RunRecorder interface and powers
// resuming incremental syncs from the last recorded library version.
package runs

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/zotero-readwise/internal/entities"
)

// Repository handles all sync-run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync-run repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Start records the beginning of a run from the given cursor.
func (r *Repository) Start(since int) (*entities.SyncRun, error) {
	run := &entities.SyncRun{
		Status:    entities.SyncStatusRunning,
		Since:     since,
		StartedAt: time.Now(),
	}
	if err := r.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// Complete finalizes a run. The run's counters and library version are
// expected to be filled in by the caller before completion.
func (r *Repository) Complete(run *entities.SyncRun, succeeded bool, errorMsg string) error {
	now := time.Now()

	run.Status = entities.SyncStatusCompleted
	if !succeeded {
		run.Status = entities.SyncStatusFailed
	}
	run.Error = errorMsg
	run.CompletedAt = &now

	return r.db.Save(run).Error
}

// LastLibraryVersion returns the library version recorded by the most
// recent completed run, or 0 when no run has completed yet.
func (r *Repository) LastLibraryVersion() (int, error) {
	var run entities.SyncRun
	err := r.db.Where("status = ?", entities.SyncStatusCompleted).Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return run.LibraryVersion, nil
}

// Recent returns the most recent runs, newest first.
func (r *Repository) Recent(limit int) ([]entities.SyncRun, error) {
	var runs []entities.SyncRun
	err := r.db.Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
