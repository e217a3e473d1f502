package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid collection URI",
			uri:      "vera://collections/knowledge",
			expected: "knowledge",
		},
		{
			name:     "invalid prefix",
			uri:      "file://collections/knowledge",
			expected: "",
		},
		{
			name:     "trailing path segment",
			uri:      "vera://collections/knowledge/extra",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractCollectionName(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCollectionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil chunk store returns empty list", func(t *testing.T) {
		ports := &Ports{Assistant: &mockAssistantService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections")
		result, err := server.handleCollectionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns collections with counts", func(t *testing.T) {
		mockChunks := &mockChunkStore{
			collections: []string{"knowledge", "notes"},
			counts:      map[string]int{"knowledge": 42, "notes": 7},
		}

		ports := &Ports{Assistant: &mockAssistantService{}, Chunks: mockChunks}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections")
		result, err := server.handleCollectionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "knowledge")
		assert.Contains(t, result.Contents[0].Text, "42")
		assert.Contains(t, result.Contents[0].Text, "notes")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		mockChunks := &mockChunkStore{
			err: errors.New("database error"),
		}

		ports := &Ports{Assistant: &mockAssistantService{}, Chunks: mockChunks}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections")
		_, err = server.handleCollectionsResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing collections")
	})

	t.Run("handles empty store", func(t *testing.T) {
		mockChunks := &mockChunkStore{}

		ports := &Ports{Assistant: &mockAssistantService{}, Chunks: mockChunks}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections")
		result, err := server.handleCollectionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleCollectionResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil chunk store returns not found", func(t *testing.T) {
		ports := &Ports{Assistant: &mockAssistantService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections/knowledge")
		_, err = server.handleCollectionResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		mockChunks := &mockChunkStore{}
		ports := &Ports{Assistant: &mockAssistantService{}, Chunks: mockChunks}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://invalid/uri")
		_, err = server.handleCollectionResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns collection successfully", func(t *testing.T) {
		mockChunks := &mockChunkStore{
			counts: map[string]int{"knowledge": 42},
		}

		ports := &Ports{Assistant: &mockAssistantService{}, Chunks: mockChunks}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections/knowledge")
		result, err := server.handleCollectionResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "knowledge")
		assert.Contains(t, result.Contents[0].Text, "42")
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("unknown collection returns not found", func(t *testing.T) {
		mockChunks := &mockChunkStore{
			counts: map[string]int{"knowledge": 42},
		}

		ports := &Ports{Assistant: &mockAssistantService{}, Chunks: mockChunks}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest("vera://collections/missing")
		_, err = server.handleCollectionResource(ctx, req)

		require.Error(t, err)
	})
}
