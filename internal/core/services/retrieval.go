package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
	"github.com/halcyon-sec/attackrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers similarity queries: embed the query with the
// same model that embedded the corpus, then rank by vector distance.
type RetrievalService struct {
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	collection string
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	collection string,
) *RetrievalService {
	return &RetrievalService{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Search embeds the query and returns the k nearest documents in the
// store's rank order. No re-ranking happens on this side.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]domain.RetrievedDocument, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RetrievedDocument{}, nil
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: result count must be positive", domain.ErrInvalidInput)
	}

	logger.Debug("Query: %q (k=%d)", query, k)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	coll, err := s.store.GetCollection(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", s.collection, err)
	}

	docs, err := coll.Query(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	logger.Info("Retrieved %d documents", len(docs))
	return docs, nil
}

// Context retrieves the k nearest documents and formats them into the
// single context block handed to the chat model.
func (s *RetrievalService) Context(ctx context.Context, query string, k int) (string, error) {
	docs, err := s.Search(ctx, query, k)
	if err != nil {
		return "", err
	}
	return domain.ContextBlock(docs), nil
}
