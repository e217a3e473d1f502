package mcp

import (
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers questions against the knowledge base.
	Assistant driving.AssistantService

	// Retrieval exposes the retrieval pipeline for direct search.
	Retrieval driving.RetrievalService

	// WebSearch exposes the web search provider chain.
	WebSearch driving.WebSearchService

	// Chunks backs the collection resources.
	Chunks driven.ChunkStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	// Retrieval, WebSearch, and Chunks are optional; their tools and
	// resources degrade to empty responses.
	return nil
}
