package driven

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// VectorStore provides access to the external vector database.
// One store handle is opened per process and shared across all calls.
type VectorStore interface {
	// GetOrCreateCollection returns the named collection, creating it
	// when absent. Used by ingestion.
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)

	// GetCollection returns the named collection. Returns
	// domain.ErrCollectionNotFound when it does not exist; retrieval
	// paths treat that as a setup failure rather than creating an
	// empty collection to search.
	GetCollection(ctx context.Context, name string) (Collection, error)

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// Collection is one named index of (key, vector, metadata, document)
// tuples supporting upsert and nearest-neighbour search.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Upsert writes entries by key. Existing keys are overwritten, so
	// re-running ingestion is idempotent per key.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// Query returns the k nearest entries to the query vector, ranked
	// by ascending distance. The store's ordering is final.
	Query(ctx context.Context, vector []float32, k int) ([]domain.RetrievedDocument, error)

	// Count returns the number of entries in the collection.
	Count(ctx context.Context) (int, error)
}
