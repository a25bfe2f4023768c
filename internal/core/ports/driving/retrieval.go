package driving

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// RetrievalService answers similarity queries against the indexed corpus.
type RetrievalService interface {
	// Search embeds the query and returns the k nearest documents in
	// the store's rank order.
	Search(ctx context.Context, query string, k int) ([]domain.RetrievedDocument, error)

	// Context retrieves the k nearest documents and formats them into a
	// single context block for the chat model.
	Context(ctx context.Context, query string, k int) (string, error)
}
