package driven

import (
	"context"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// SearchProvider is a single external web search backend.
//
// Implementations may include:
//   - Perplexity (AI-synthesised answer with citations)
//   - Tavily (search optimised for AI consumption)
//   - Serper (Google results)
//   - Brave (privacy-focused search)
//
// The web search service owns provider ordering, fallback, and
// caching; a provider only issues one raw request and normalises the
// payload into domain.WebSearchResult.
type SearchProvider interface {
	// Name returns the provider's short name for logging ("tavily").
	Name() string

	// Search issues one request and returns normalised results.
	// An error or an empty result set causes the service to advance to
	// the next provider in the chain.
	Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchResult, error)
}
