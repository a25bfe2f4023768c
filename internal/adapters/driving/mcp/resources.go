package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for attackrag resources.
const uriScheme = "attackrag://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Vector store collection status",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// statusInfo is the payload of the status resource.
type statusInfo struct {
	Collection string `json:"collection"`
	Reachable  bool   `json:"reachable"`
	Documents  int    `json:"documents"`
	Error      string `json:"error,omitempty"`
}

// handleStatusResource reports whether the collection is reachable and how
// many documents it holds.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := statusInfo{Collection: s.ports.Collection}

	if s.ports.Store != nil {
		coll, err := s.ports.Store.GetCollection(ctx, s.ports.Collection)
		if err != nil {
			info.Error = err.Error()
		} else if count, countErr := coll.Count(ctx); countErr != nil {
			info.Error = countErr.Error()
		} else {
			info.Reachable = true
			info.Documents = count
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
