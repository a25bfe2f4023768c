package driven

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// RunLedger persists ingest run outcomes.
// Backed by SQLite. This is an optional service - ledger failures never
// fail an ingest run; the run proceeds and the miss is logged.
type RunLedger interface {
	// SaveRun stores one completed run.
	SaveRun(ctx context.Context, run *domain.IngestRun) error

	// LastRun retrieves the most recent run.
	// Returns domain.ErrNotFound when no runs have been recorded.
	LastRun(ctx context.Context) (*domain.IngestRun, error)

	// Close releases resources.
	Close() error
}
