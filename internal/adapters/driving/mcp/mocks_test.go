package mcp

import (
	"context"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	docs []domain.RetrievedDocument
	err  error

	gotQuery string
	gotK     int
}

func (m *mockRetrievalService) Search(_ context.Context, query string, k int) ([]domain.RetrievedDocument, error) {
	m.gotQuery = query
	m.gotK = k
	return m.docs, m.err
}

func (m *mockRetrievalService) Context(_ context.Context, _ string, _ int) (string, error) {
	return domain.ContextBlock(m.docs), m.err
}

// mockCollection is a mock implementation of driven.Collection.
type mockCollection struct {
	name     string
	count    int
	countErr error
}

func (m *mockCollection) Name() string { return m.name }

func (m *mockCollection) Upsert(_ context.Context, _ []domain.IndexEntry) error {
	return nil
}

func (m *mockCollection) Query(_ context.Context, _ []float32, _ int) ([]domain.RetrievedDocument, error) {
	return nil, nil
}

func (m *mockCollection) Count(_ context.Context) (int, error) {
	return m.count, m.countErr
}

// mockVectorStore is a mock implementation of driven.VectorStore.
type mockVectorStore struct {
	coll   *mockCollection
	getErr error
}

func (m *mockVectorStore) GetOrCreateCollection(_ context.Context, _ string) (driven.Collection, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.coll, nil
}

func (m *mockVectorStore) GetCollection(_ context.Context, _ string) (driven.Collection, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.coll, nil
}

func (m *mockVectorStore) Ping(_ context.Context) error { return nil }

func (m *mockVectorStore) Close() error { return nil }
