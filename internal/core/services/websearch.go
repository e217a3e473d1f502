package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/core/ports/driving"
	"github.com/vera-labs/vera-cli/internal/logger"
)

// Ensure WebSearchService implements the interface.
var _ driving.WebSearchService = (*WebSearchService)(nil)

// Web search limits.
const (
	// DefaultWebResults is the result count when the model does not
	// specify one.
	DefaultWebResults = 5

	// MaxWebResults caps the result count a tool invocation may request.
	MaxWebResults = 10

	// DefaultCacheTTL is how long a cached result set stays valid.
	DefaultCacheTTL = time.Hour
)

// NoResultsMarker is what FormatForContext renders for an empty result
// set. It is an explicit marker so the model cannot mistake the
// absence of results for context.
const NoResultsMarker = "No search results found."

// cacheEntry is one cached result set. Valid while now-created < ttl;
// expired entries are evicted lazily on the next lookup.
type cacheEntry struct {
	results []domain.WebSearchResult
	created time.Time
}

// WebSearchService tries an ordered list of search providers and
// caches non-empty results by query fingerprint.
//
// The fallback chain is strictly sequential: a later provider is only
// called (and billed) if an earlier one fails. The cache is shared
// mutable state; the mutex guards the read-then-write-on-miss sequence
// against concurrent requests racing on the same key.
type WebSearchService struct {
	providers []driven.SearchProvider
	ttl       time.Duration

	mu    sync.Mutex
	cache map[uint64]cacheEntry

	// now is replaceable in tests to exercise TTL expiry.
	now func() time.Time
}

// NewWebSearchService creates a web search service over the given
// providers, tried in slice order. Providers without credentials
// should simply not be passed in.
func NewWebSearchService(providers []driven.SearchProvider) *WebSearchService {
	return &WebSearchService{
		providers: providers,
		ttl:       DefaultCacheTTL,
		cache:     make(map[uint64]cacheEntry),
		now:       time.Now,
	}
}

// SetTTL overrides the cache time-to-live.
func (s *WebSearchService) SetTTL(ttl time.Duration) {
	s.ttl = ttl
}

// Search returns results from the first provider that succeeds, or an
// empty slice if every provider fails. Results are served from cache
// when a non-expired entry exists for (query, maxResults).
func (s *WebSearchService) Search(ctx context.Context, query string, maxResults int) []domain.WebSearchResult {
	if maxResults <= 0 {
		maxResults = DefaultWebResults
	}
	if maxResults > MaxWebResults {
		maxResults = MaxWebResults
	}

	key := cacheKey(query, maxResults)

	if cached, ok := s.lookup(key); ok {
		logger.Debug("Web search: cache hit for %q", query)
		return cached
	}

	for _, provider := range s.providers {
		results, err := provider.Search(ctx, query, maxResults)
		if err != nil {
			logger.Warn("Web search: %s failed: %v", provider.Name(), err)
			continue
		}
		if len(results) == 0 {
			logger.Debug("Web search: %s returned no results", provider.Name())
			continue
		}

		logger.Info("Web search: %d results from %s", len(results), provider.Name())
		s.store(key, results)
		return results
	}

	logger.Warn("Web search: all providers exhausted for %q", query)
	return []domain.WebSearchResult{}
}

// FormatForContext renders the result list as a bounded text block for
// prompt injection. A synthesised answer, when present, leads the
// block.
func (s *WebSearchService) FormatForContext(results []domain.WebSearchResult) string {
	if len(results) == 0 {
		return NoResultsMarker
	}

	var b strings.Builder
	b.WriteString("Web Search Results:\n\n")

	for _, r := range results {
		if r.Answer == "" {
			continue
		}
		b.WriteString("Answer: ")
		b.WriteString(r.Answer)
		b.WriteString("\n")
		for _, c := range r.Citations {
			fmt.Fprintf(&b, "  Source: %s\n", c)
		}
		b.WriteString("\n")
	}

	n := 0
	for _, r := range results {
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   %s\n\n", n, r.Title, r.URL, r.Snippet)
	}

	return b.String()
}

// lookup returns a cached result set if present and unexpired.
// Expired entries are evicted here.
func (s *WebSearchService) lookup(key uint64) ([]domain.WebSearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.created) >= s.ttl {
		delete(s.cache, key)
		return nil, false
	}
	return entry.results, true
}

// store caches a non-empty result set with the current timestamp.
func (s *WebSearchService) store(key uint64, results []domain.WebSearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{results: results, created: s.now()}
}

// cacheKey is a stable fingerprint of (query, maxResults).
func cacheKey(query string, maxResults int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", query, maxResults)
	return h.Sum64()
}
