package driving

import (
	"context"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// RetrievalService exposes the planning and retrieval pipeline for
// inspection, independent of answer generation.
type RetrievalService interface {
	// Plan classifies the query and returns its retrieval plan.
	Plan(query string) (domain.RetrievalPlan, error)

	// Retrieve executes a plan and returns the deduplicated, ranked,
	// budget-truncated results. An empty or missing collection yields
	// an empty slice, not an error.
	Retrieve(ctx context.Context, plan domain.RetrievalPlan) ([]domain.SearchResult, error)
}

// WebSearchService exposes the multi-provider web search tool.
type WebSearchService interface {
	// Search tries the configured providers in priority order and
	// returns the first non-empty normalised result set. All providers
	// failing yields an empty slice, not an error.
	Search(ctx context.Context, query string, maxResults int) []domain.WebSearchResult

	// FormatForContext renders results as a bounded text block for
	// prompt injection. Empty input renders an explicit no-results
	// marker.
	FormatForContext(results []domain.WebSearchResult) string
}
