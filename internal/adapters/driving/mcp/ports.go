package mcp

import (
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers similarity queries against the indexed corpus.
	Retrieval driving.RetrievalService

	// Store reports collection status. Optional; the status resource
	// degrades when absent.
	Store driven.VectorStore

	// Collection is the collection name the status resource reports on.
	Collection string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Store is optional; only the status resource uses it.
	return nil
}
