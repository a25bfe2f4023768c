package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
	"github.com/halcyon-sec/attackrag/internal/logger"
)

// Ensure AuditService implements the interface.
var _ driving.Auditor = (*AuditService)(nil)

// AuditService recomputes the expected record count from the knowledge
// base with the same filter the ingest pipeline uses, and compares it
// against what the collection actually holds.
type AuditService struct {
	kb     driven.KnowledgeBase
	store  driven.VectorStore
	ledger driven.RunLedger

	collection string
}

// NewAuditService creates a new audit service.
// The ledger is optional - if nil, the report carries no run history.
func NewAuditService(
	kb driven.KnowledgeBase,
	store driven.VectorStore,
	ledger driven.RunLedger,
	collection string,
) *AuditService {
	return &AuditService{
		kb:         kb,
		store:      store,
		ledger:     ledger,
		collection: collection,
	}
}

// Audit runs one audit pass. A missing collection is a hard failure
// carrying domain.ErrCollectionNotFound; the audit never creates one.
func (s *AuditService) Audit(ctx context.Context) (*driving.AuditReport, error) {
	logger.Section("Audit")

	objects, err := s.kb.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}

	filtered := domain.FilterObjects(objects)
	report := &driving.AuditReport{
		Total:              filtered.Total(),
		SkippedByType:      filtered.SkippedByType,
		SkippedByLifecycle: filtered.SkippedByLifecycle,
		Expected:           len(filtered.Included),
	}
	logger.Info("Expected %d entries from %d objects", report.Expected, report.Total)

	coll, err := s.store.GetCollection(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", s.collection, err)
	}

	count, err := coll.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	report.Actual = count
	logger.Info("Collection holds %d entries (diff %d)", report.Actual, report.Diff())

	// Run history enriches the report but is never required for it.
	if s.ledger != nil {
		last, err := s.ledger.LastRun(ctx)
		switch {
		case err == nil:
			report.LastRun = last
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("No ingest runs recorded")
		default:
			logger.Warn("Failed to read run ledger: %v", err)
		}
	}

	return report, nil
}
