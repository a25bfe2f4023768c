package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns retrieved documents", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			docs: []domain.RetrievedDocument{
				{
					Document: "T1055: Process Injection (attack-pattern)\nDescription: ...",
					Meta: domain.RecordMeta{
						MitreID: "T1055",
						Name:    "Process Injection",
						Type:    "attack-pattern",
						URL:     "https://attack.mitre.org/techniques/T1055",
					},
					Distance: 0.12,
				},
			},
		}

		ports := &Ports{Retrieval: mockRetrieval}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "process injection", K: 5}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "T1055", output.Results[0].MitreID)
		assert.Equal(t, "Process Injection", output.Results[0].Name)
		assert.Equal(t, "attack-pattern", output.Results[0].Type)
		assert.Equal(t, "https://attack.mitre.org/techniques/T1055", output.Results[0].URL)
		assert.Equal(t, 0.12, output.Results[0].Distance)
		assert.Contains(t, output.Results[0].Document, "T1055: Process Injection")

		assert.Equal(t, "process injection", mockRetrieval.gotQuery)
		assert.Equal(t, 5, mockRetrieval.gotK)
	})

	t.Run("default k is 3", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{}
		ports := &Ports{Retrieval: mockRetrieval}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test", K: 0}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 3, mockRetrieval.gotK)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			err: errors.New("embed query: connection refused"),
		}

		ports := &Ports{Retrieval: mockRetrieval}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "embed query")
	})
}
