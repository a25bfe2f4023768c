package driving

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// IngestOrchestrator runs the ingestion pipeline end to end, from loading
// and filtering the corpus through embedding to the batched index writes.
type IngestOrchestrator interface {
	// Run executes one full ingestion pass and returns its outcome.
	// Setup failures (missing knowledge base, unreachable store) abort
	// with an error; per-record embedding failures are skipped, counted
	// and reported in the returned run.
	Run(ctx context.Context) (*domain.IngestRun, error)
}
