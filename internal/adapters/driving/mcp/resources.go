package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Vera resources.
	uriScheme = "vera://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing collections.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "List of all knowledge base collections",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	// Template for a single collection.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{name}",
		Name:        "collection",
		Description: "Chunk count for a specific collection",
		MIMEType:    "application/json",
	}, s.handleCollectionResource)
}

// handleCollectionsResource returns a list of all collections with
// their chunk counts.
func (s *Server) handleCollectionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chunks == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	names, err := s.ports.Chunks.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	infos := make([]collectionInfo, len(names))
	for i, name := range names {
		count, err := s.ports.Chunks.Count(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("counting collection %q: %w", name, err)
		}
		infos[i] = collectionInfo{Name: name, Chunks: count}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling collections: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleCollectionResource returns the chunk count for a single collection.
func (s *Server) handleCollectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chunks == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract the name from a URI like vera://collections/{name}.
	name := extractCollectionName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	count, err := s.ports.Chunks.Count(ctx, name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(collectionInfo{Name: name, Chunks: count}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling collection: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// collectionInfo is the JSON shape served for collection resources.
type collectionInfo struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
}

// extractCollectionName extracts the collection name from a URI like
// vera://collections/{name}.
func extractCollectionName(uri string) string {
	const prefix = uriScheme + "collections/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}

	return name
}
