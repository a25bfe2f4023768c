package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.Collection = (*Collection)(nil)

// Collection is a handle on a single Chroma collection. The server
// addresses collections by id, so the handle carries the id resolved
// at fetch/create time alongside the human-readable name.
type Collection struct {
	store *VectorStore
	id    string
	name  string
}

// upsertRequest is the columnar write format Chroma expects: parallel
// arrays where index i across all four describes one entry.
type upsertRequest struct {
	IDs        []string            `json:"ids"`
	Embeddings [][]float32         `json:"embeddings"`
	Metadatas  []domain.RecordMeta `json:"metadatas"`
	Documents  []string            `json:"documents"`
}

// queryRequest is the nearest-neighbour query format.
type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse is the query result format. The outer dimension is one
// entry per query embedding; we always send exactly one.
type queryResponse struct {
	IDs       [][]string            `json:"ids"`
	Documents [][]string            `json:"documents"`
	Metadatas [][]domain.RecordMeta `json:"metadatas"`
	Distances [][]float64           `json:"distances"`
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Upsert writes the entries in one request. Entries that share a key
// with an existing entry overwrite it.
func (c *Collection) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	reqBody := upsertRequest{
		IDs:        make([]string, 0, len(entries)),
		Embeddings: make([][]float32, 0, len(entries)),
		Metadatas:  make([]domain.RecordMeta, 0, len(entries)),
		Documents:  make([]string, 0, len(entries)),
	}
	for _, entry := range entries {
		reqBody.IDs = append(reqBody.IDs, entry.Key)
		reqBody.Embeddings = append(reqBody.Embeddings, entry.Vector)
		reqBody.Metadatas = append(reqBody.Metadatas, entry.Meta)
		reqBody.Documents = append(reqBody.Documents, entry.Document)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.store.baseURL+"/api/v1/collections/"+c.id+"/upsert",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.store.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return readError(resp)
	}
	return nil
}

// Query returns the k nearest entries to the vector, closest first.
func (c *Collection) Query(ctx context.Context, vector []float32, k int) ([]domain.RetrievedDocument, error) {
	reqBody := queryRequest{
		QueryEmbeddings: [][]float32{vector},
		NResults:        k,
		Include:         []string{"documents", "metadatas", "distances"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.store.baseURL+"/api/v1/collections/"+c.id+"/query",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.store.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Documents) == 0 {
		return nil, nil
	}

	docs := result.Documents[0]
	retrieved := make([]domain.RetrievedDocument, 0, len(docs))
	for i, doc := range docs {
		rd := domain.RetrievedDocument{Document: doc}
		if len(result.Metadatas) > 0 && i < len(result.Metadatas[0]) {
			rd.Meta = result.Metadatas[0][i]
		}
		if len(result.Distances) > 0 && i < len(result.Distances[0]) {
			rd.Distance = result.Distances[0][i]
		}
		retrieved = append(retrieved, rd)
	}
	return retrieved, nil
}

// Count returns the number of entries in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.store.baseURL+"/api/v1/collections/"+c.id+"/count",
		http.NoBody,
	)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.store.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, readError(resp)
	}

	// The count endpoint returns a bare integer body.
	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return count, nil
}
