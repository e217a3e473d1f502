package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidQuery indicates an empty or malformed query. It is
	// rejected before any retrieval work and surfaced to the user.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrCollectionNotFound indicates the named chunk collection does
	// not exist. The retriever treats this as empty results.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrToolLoopExceeded indicates the tool-use round trips exceeded
	// the bounded maximum. Callers receive the best-effort partial
	// answer rather than an indefinite loop.
	ErrToolLoopExceeded = errors.New("tool loop exceeded")

	// ErrLLMUnavailable indicates the LLM client is not configured or
	// unreachable. Fatal for the current query.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates an external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderFailure indicates a web search provider call failed.
	// Recovered locally by advancing to the next provider.
	ErrProviderFailure = errors.New("provider failure")
)
