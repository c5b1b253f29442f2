package runs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/zotero-readwise/internal/database"
	"github.com/mrlokans/zotero-readwise/internal/entities"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db.DB)
}

func TestRepository_StartAndComplete(t *testing.T) {
	repo := setupRepository(t)

	run, err := repo.Start(42)
	require.NoError(t, err)
	assert.NotZero(t, run.ID)
	assert.Equal(t, entities.SyncStatusRunning, run.Status)
	assert.Equal(t, 42, run.Since)

	run.Retrieved = 10
	run.Formatted = 8
	run.FormatFailed = 2
	run.Uploaded = 8
	run.LibraryVersion = 100

	require.NoError(t, repo.Complete(run, true, ""))
	assert.Equal(t, entities.SyncStatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)

	recent, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 8, recent[0].Uploaded)
	assert.Equal(t, 100, recent[0].LibraryVersion)
}

func TestRepository_CompleteWithError(t *testing.T) {
	repo := setupRepository(t)

	run, err := repo.Start(0)
	require.NoError(t, err)

	require.NoError(t, repo.Complete(run, false, "upload rejected"))
	assert.Equal(t, entities.SyncStatusFailed, run.Status)
	assert.Equal(t, "upload rejected", run.Error)
}

func TestRepository_LastLibraryVersion(t *testing.T) {
	repo := setupRepository(t)

	t.Run("no runs yet", func(t *testing.T) {
		version, err := repo.LastLibraryVersion()
		require.NoError(t, err)
		assert.Zero(t, version)
	})

	t.Run("failed runs are ignored", func(t *testing.T) {
		run, err := repo.Start(0)
		require.NoError(t, err)
		run.LibraryVersion = 50
		require.NoError(t, repo.Complete(run, false, "boom"))

		version, err := repo.LastLibraryVersion()
		require.NoError(t, err)
		assert.Zero(t, version)
	})

	t.Run("latest completed run wins", func(t *testing.T) {
		first, err := repo.Start(0)
		require.NoError(t, err)
		first.LibraryVersion = 100
		require.NoError(t, repo.Complete(first, true, ""))

		second, err := repo.Start(100)
		require.NoError(t, err)
		second.LibraryVersion = 120
		require.NoError(t, repo.Complete(second, true, ""))

		version, err := repo.LastLibraryVersion()
		require.NoError(t, err)
		assert.Equal(t, 120, version)
	})
}

func TestRepository_Recent(t *testing.T) {
	repo := setupRepository(t)

	for i := 0; i < 5; i++ {
		run, err := repo.Start(i)
		require.NoError(t, err)
		require.NoError(t, repo.Complete(run, true, ""))
	}

	recent, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, 4, recent[0].Since, "newest run comes first")
}
