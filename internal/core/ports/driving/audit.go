package driving

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// Auditor cross-checks ingestion outcomes against the vector store.
type Auditor interface {
	// Audit recomputes the expected record count from the knowledge base
	// and compares it with the collection's actual count.
	Audit(ctx context.Context) (*AuditReport, error)
}

// AuditReport is the outcome of one audit pass.
type AuditReport struct {
	// Total is the number of objects in the knowledge base.
	Total int

	// SkippedByType counts objects outside the type allow-set.
	SkippedByType int

	// SkippedByLifecycle counts revoked or deprecated objects.
	SkippedByLifecycle int

	// Expected is the record count the filter yields (what a clean
	// ingest run should have indexed).
	Expected int

	// Actual is the collection's reported entry count.
	Actual int

	// LastRun is the most recent ledger entry, nil when the ledger is
	// empty or unavailable.
	LastRun *domain.IngestRun
}

// Diff returns Expected - Actual. Zero means the store matches the
// knowledge base; positive means entries are missing; negative means the
// store holds extra entries.
func (r *AuditReport) Diff() int {
	return r.Expected - r.Actual
}
