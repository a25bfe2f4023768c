package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/halcyon-sec/attackrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
)

// Store is a SQLite-backed ingest run ledger.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.RunLedger = (*Store)(nil)

// NewStore creates a new SQLite store at the specified database path.
// If path is empty, defaults to ~/.attackrag/runs.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".attackrag", "runs.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_create_ingest_runs.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveRun stores or updates an ingest run record.
func (s *Store) SaveRun(ctx context.Context, run *domain.IngestRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	failedJSON, err := json.Marshal(run.FailedIDs)
	if err != nil {
		return fmt.Errorf("marshalling failed ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs
			(id, started_at, finished_at, total, included, skipped_by_type,
			 skipped_by_lifecycle, indexed, batches, failed_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			total = excluded.total,
			included = excluded.included,
			skipped_by_type = excluded.skipped_by_type,
			skipped_by_lifecycle = excluded.skipped_by_lifecycle,
			indexed = excluded.indexed,
			batches = excluded.batches,
			failed_ids = excluded.failed_ids
	`, run.ID, run.StartedAt, run.FinishedAt, run.Total, run.Included,
		run.SkippedByType, run.SkippedByLifecycle, run.Indexed, run.Batches,
		string(failedJSON))

	if err != nil {
		return fmt.Errorf("saving ingest run: %w", err)
	}
	return nil
}

// LastRun retrieves the most recently finished ingest run.
func (s *Store) LastRun(ctx context.Context) (*domain.IngestRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, total, included, skipped_by_type,
		       skipped_by_lifecycle, indexed, batches, failed_ids
		FROM ingest_runs
		ORDER BY finished_at DESC, started_at DESC
		LIMIT 1
	`)

	var run domain.IngestRun
	var startedAt, finishedAt sql.NullTime
	var failedJSON string
	if err := row.Scan(&run.ID, &startedAt, &finishedAt, &run.Total, &run.Included,
		&run.SkippedByType, &run.SkippedByLifecycle, &run.Indexed, &run.Batches,
		&failedJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning ingest run: %w", err)
	}

	if startedAt.Valid {
		run.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}

	if failedJSON != "" {
		if err := json.Unmarshal([]byte(failedJSON), &run.FailedIDs); err != nil {
			return nil, fmt.Errorf("unmarshaling failed ids: %w", err)
		}
	}

	return &run, nil
}
