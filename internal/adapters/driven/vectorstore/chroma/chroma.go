// Package chroma provides a vector store adapter for the Chroma REST API.
//
// Chroma has no official Go client, so this adapter speaks the v1 HTTP
// API directly: collections are addressed by the server-assigned id
// obtained when the collection is fetched or created, and entries are
// written and queried through the collection endpoints.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the Chroma vector store.
type Config struct {
	// BaseURL is the Chroma server base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// VectorStore talks to a Chroma server. One instance is opened per
// process and shared across all calls.
type VectorStore struct {
	client  *http.Client
	baseURL string
}

// createCollectionRequest is the collection create/get request format.
type createCollectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

// collectionResponse is the collection object returned by the server.
type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewVectorStore creates a new Chroma vector store client.
func NewVectorStore(cfg Config) *VectorStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &VectorStore{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// GetOrCreateCollection returns the named collection, creating it when absent.
func (s *VectorStore) GetOrCreateCollection(ctx context.Context, name string) (driven.Collection, error) {
	reqBody := createCollectionRequest{
		Name:        name,
		GetOrCreate: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/v1/collections",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var coll collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&coll); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Collection{store: s, id: coll.ID, name: coll.Name}, nil
}

// GetCollection returns the named collection without creating it.
// A missing collection maps to domain.ErrCollectionNotFound so callers
// can distinguish "never ingested" from a transport fault.
func (s *VectorStore) GetCollection(ctx context.Context, name string) (driven.Collection, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		s.baseURL+"/api/v1/collections/"+name,
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode.
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %q", domain.ErrCollectionNotFound, name)
	default:
		return nil, readError(resp)
	}

	var coll collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&coll); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Collection{store: s, id: coll.ID, name: coll.Name}, nil
}

// Ping validates the server is reachable via the heartbeat endpoint.
func (s *VectorStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/heartbeat", http.NoBody)
	if err != nil {
		return fmt.Errorf("chroma: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chroma: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("chroma: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("chroma: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// readError turns a non-200 response into an error carrying the body.
func readError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("chroma error (status %d): failed to read response", resp.StatusCode)
	}
	return fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
}
