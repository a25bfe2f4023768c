package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_attack tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to search the ATT&CK corpus for"`
	K     int    `json:"k,omitempty" jsonschema:"number of results to return (default 3)"`
}

// SearchOutput is the output schema for the search_attack tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved document.
type SearchResultOutput struct {
	MitreID  string  `json:"mitre_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	URL      string  `json:"url,omitempty"`
	Distance float64 `json:"distance"`
	Document string  `json:"document"`
}

// defaultK is the result count used when the caller does not set one.
const defaultK = 3

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_attack",
		Description: "Similarity search over the indexed MITRE ATT&CK knowledge base",
	}, s.handleSearch)
}

// handleSearch handles the search_attack tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	k := input.K
	if k <= 0 {
		k = defaultK
	}

	docs, err := s.ports.Retrieval.Search(ctx, input.Query, k)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(docs)),
		Count:   len(docs),
	}

	for i := range docs {
		output.Results[i] = SearchResultOutput{
			MitreID:  docs[i].Meta.MitreID,
			Name:     docs[i].Meta.Name,
			Type:     docs[i].Meta.Type,
			URL:      docs[i].Meta.URL,
			Distance: docs[i].Distance,
			Document: docs[i].Document,
		}
	}

	return nil, output, nil
}
