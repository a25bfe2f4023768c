// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It exposes similarity search over the indexed ATT&CK corpus to MCP-capable
// AI assistants.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
