package domain

import "time"

// IngestRun records the outcome of one ingestion pass for later auditing.
// Counts satisfy: Total = Included + SkippedByType + SkippedByLifecycle,
// and Indexed = Included - len(FailedIDs).
type IngestRun struct {
	// ID is the unique identifier for the run.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// Total is the number of objects in the knowledge base bundle.
	Total int

	// Included is the number of objects that passed the filter.
	Included int

	// SkippedByType counts objects outside the type allow-set.
	SkippedByType int

	// SkippedByLifecycle counts revoked or deprecated objects.
	SkippedByLifecycle int

	// Indexed is the number of entries upserted to the vector store.
	Indexed int

	// Batches is the number of upsert calls issued.
	Batches int

	// FailedIDs lists the catalogue ids skipped for embedding failure,
	// in processing order.
	FailedIDs []string
}
