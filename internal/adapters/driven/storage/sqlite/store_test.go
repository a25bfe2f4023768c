package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "attackrag-test-*")
	require.NoError(t, err)

	// Create store in temp directory
	store, err := NewStore(filepath.Join(tempDir, "runs.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// testRun builds a complete ingest run with the timestamps truncated so
// they survive the DATETIME round-trip.
func testRun(id string, finished time.Time) *domain.IngestRun {
	finished = finished.UTC().Truncate(time.Second)
	return &domain.IngestRun{
		ID:                 id,
		StartedAt:          finished.Add(-2 * time.Minute),
		FinishedAt:         finished,
		Total:              823,
		Included:           691,
		SkippedByType:      98,
		SkippedByLifecycle: 34,
		Indexed:            689,
		Batches:            7,
		FailedIDs:          []string{"T1055", "T1003"},
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	// Test with invalid path (should fail to create directory)
	_, err := NewStore("/invalid\x00path/runs.db")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "attackrag-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "runs.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_DefaultPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	store, err := NewStore("")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify path resolves under the home directory
	assert.Contains(t, store.Path(), ".attackrag")
	assert.Contains(t, store.Path(), "runs.db")
	assert.FileExists(t, filepath.Join(tempHome, ".attackrag", "runs.db"))
}

func TestNewStore_Reopen_KeepsData(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "attackrag-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "runs.db")
	ctx := context.Background()

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(ctx, testRun("run-1", time.Now())))
	require.NoError(t, store.Close())

	// Reopening must re-run migrations harmlessly and keep existing rows.
	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	run, err := reopened.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
}

// ==================== Run Ledger Tests ====================

func TestStore_SaveRun_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	saved := testRun("run-1", time.Now())
	require.NoError(t, store.SaveRun(ctx, saved))

	loaded, err := store.LastRun(ctx)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, loaded.ID)
	assert.True(t, saved.StartedAt.Equal(loaded.StartedAt))
	assert.True(t, saved.FinishedAt.Equal(loaded.FinishedAt))
	assert.Equal(t, saved.Total, loaded.Total)
	assert.Equal(t, saved.Included, loaded.Included)
	assert.Equal(t, saved.SkippedByType, loaded.SkippedByType)
	assert.Equal(t, saved.SkippedByLifecycle, loaded.SkippedByLifecycle)
	assert.Equal(t, saved.Indexed, loaded.Indexed)
	assert.Equal(t, saved.Batches, loaded.Batches)
	assert.Equal(t, saved.FailedIDs, loaded.FailedIDs)
}

func TestStore_SaveRun_NoFailures(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("run-1", time.Now())
	run.FailedIDs = nil
	run.Indexed = run.Included
	require.NoError(t, store.SaveRun(ctx, run))

	loaded, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.FailedIDs)
}

func TestStore_SaveRun_InvalidRun(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveRun(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveRun(ctx, &domain.IngestRun{}), domain.ErrInvalidInput)
}

func TestStore_SaveRun_Upsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := testRun("run-1", time.Now())
	require.NoError(t, store.SaveRun(ctx, run))

	run.Indexed = 691
	run.FailedIDs = nil
	require.NoError(t, store.SaveRun(ctx, run))

	loaded, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, 691, loaded.Indexed)
	assert.Empty(t, loaded.FailedIDs)
}

func TestStore_LastRun_Empty_ReturnsNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.LastRun(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_LastRun_ReturnsMostRecent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.SaveRun(ctx, testRun("run-old", now.Add(-time.Hour))))
	require.NoError(t, store.SaveRun(ctx, testRun("run-new", now)))
	require.NoError(t, store.SaveRun(ctx, testRun("run-middle", now.Add(-30*time.Minute))))

	run, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-new", run.ID)
}
