package driven

import (
	"context"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// ChunkStore owns persisted text chunks and their embeddings, grouped
// into named collections. The retrieval core only reads via Search;
// writes come from the document ingestion pipeline.
type ChunkStore interface {
	// Search finds the topK chunks most similar to the query text in
	// the named collection, ordered by similarity descending.
	// Returns domain.ErrCollectionNotFound if the collection does not
	// exist; callers decide whether that degrades to empty results.
	Search(ctx context.Context, collection, query string, topK int) ([]domain.SearchResult, error)

	// AddChunks stores chunks in the named collection, creating it if
	// necessary. All chunks in a collection share one embedding
	// dimensionality.
	AddChunks(ctx context.Context, collection string, chunks []domain.Chunk) error

	// Collections lists the collection names present in the store.
	Collections(ctx context.Context) ([]string, error)

	// Count returns the number of chunks in the named collection.
	// Returns domain.ErrCollectionNotFound if it does not exist.
	Count(ctx context.Context, collection string) (int, error)

	// DeleteCollection removes a collection and all its chunks.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources.
	Close() error
}
