package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
	"github.com/halcyon-sec/attackrag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// progressInterval is how many records pass between progress updates.
const progressInterval = 10

// IngestService runs the ingestion pipeline: load the knowledge base,
// filter eligible objects, synthesize documents, embed them, resolve
// index keys and upsert in batches.
type IngestService struct {
	kb       driven.KnowledgeBase
	embedder driven.EmbeddingService
	store    driven.VectorStore
	ledger   driven.RunLedger

	collection string
	batchSize  int
	workers    int
}

// NewIngestService creates a new ingest service.
// The ledger is optional - if nil, run outcomes are not recorded.
func NewIngestService(
	kb driven.KnowledgeBase,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	ledger driven.RunLedger,
	collection string,
	batchSize int,
	workers int,
) *IngestService {
	if batchSize < 1 {
		batchSize = 100
	}
	if workers < 1 {
		workers = 1
	}

	return &IngestService{
		kb:         kb,
		embedder:   embedder,
		store:      store,
		ledger:     ledger,
		collection: collection,
		batchSize:  batchSize,
		workers:    workers,
	}
}

// Run executes one full ingestion pass.
//
// Per-record embedding failures skip the record, report it and continue;
// setup failures (missing bundle, unreachable store) abort with an error.
func (s *IngestService) Run(ctx context.Context) (*domain.IngestRun, error) {
	run := &domain.IngestRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	// 1. Load and filter the knowledge base
	logger.Section("Knowledge Base")
	objects, err := s.kb.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}

	filtered := domain.FilterObjects(objects)
	run.Total = filtered.Total()
	run.Included = len(filtered.Included)
	run.SkippedByType = filtered.SkippedByType
	run.SkippedByLifecycle = filtered.SkippedByLifecycle
	logger.Info("Loaded %d objects, %d eligible (skipped %d by type, %d by lifecycle)",
		run.Total, run.Included, run.SkippedByType, run.SkippedByLifecycle)

	// 2. Synthesize one record per eligible object, in bundle order
	records := make([]domain.Record, len(filtered.Included))
	for i, obj := range filtered.Included {
		records[i] = domain.Synthesize(obj)
	}

	// 3. Embed every document
	logger.Section("Embedding")
	logger.Info("Embedding %d documents with %s (%d workers)",
		len(records), s.embedder.ModelName(), s.workers)

	vectors, err := s.embedRecords(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("embed records: %w", err)
	}

	// 4. Resolve keys and assemble entries. Only successfully embedded
	// records participate, in bundle order, so collision tie-breaking is
	// reproducible for a given set of failures.
	resolver := domain.NewKeyResolver()
	entries := make([]domain.IndexEntry, 0, len(records))
	for i, rec := range records {
		if vectors[i] == nil {
			run.FailedIDs = append(run.FailedIDs, rec.MitreID)
			continue
		}
		entries = append(entries, domain.IndexEntry{
			Key:      resolver.Resolve(rec.MitreID, rec.NativeID),
			Vector:   vectors[i],
			Meta:     rec.Meta,
			Document: rec.Document,
		})
	}
	logger.Info("Generated %d embeddings (%d failures)", len(entries), len(run.FailedIDs))

	// 5. Upsert in batches
	logger.Section("Indexing")
	coll, err := s.store.GetOrCreateCollection(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %q: %w", s.collection, err)
	}

	for start := 0; start < len(entries); start += s.batchSize {
		end := start + s.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		logger.Info("Upserting batch %d to %d", start, end)
		if err := coll.Upsert(ctx, entries[start:end]); err != nil {
			return nil, fmt.Errorf("upsert batch %d to %d: %w", start, end, err)
		}
		run.Batches++
	}
	run.Indexed = len(entries)
	run.FinishedAt = time.Now().UTC()

	// 6. Record the run. Ledger failures never fail the run.
	if s.ledger != nil {
		if err := s.ledger.SaveRun(ctx, run); err != nil {
			logger.Warn("Failed to record run %s in ledger: %v", run.ID, err)
		}
	}

	return run, nil
}

// embedRecords embeds every record's document, returning a vector slice
// aligned with the input. A nil vector marks a skipped record. Returns an
// error only when the context is cancelled.
func (s *IngestService) embedRecords(ctx context.Context, records []domain.Record) ([][]float32, error) {
	if s.workers == 1 {
		return s.embedSequential(ctx, records)
	}
	return s.embedParallel(ctx, records)
}

// embedSequential embeds one document at a time with a progress counter.
func (s *IngestService) embedSequential(ctx context.Context, records []domain.Record) ([][]float32, error) {
	vectors := make([][]float32, len(records))
	progressShown := false

	for i := range records {
		if (i+1)%progressInterval == 0 {
			logger.Progress("Processing %d/%d...", i+1, len(records))
			progressShown = true
		}

		vec, err := s.embedder.Embed(ctx, records[i].Document)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if progressShown {
				logger.ProgressDone()
				progressShown = false
			}
			logger.Error("Skipping %s due to embedding failure.", records[i].MitreID)
			continue
		}
		vectors[i] = vec
	}

	if progressShown {
		logger.ProgressDone()
	}
	return vectors, nil
}

// embedParallel embeds documents through a bounded worker pool. Results
// land at their input index so downstream ordering is unaffected by
// completion order.
func (s *IngestService) embedParallel(ctx context.Context, records []domain.Record) ([][]float32, error) {
	vectors := make([][]float32, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range records {
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, records[i].Document)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Error("Skipping %s due to embedding failure.", records[i].MitreID)
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
