package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore for
// testing and ephemeral sessions. Search scores by keyword overlap.
type ChunkStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		collections: make(map[string]map[string]domain.Chunk),
	}
}

// AddChunks stores chunks in a collection, overwriting existing IDs.
func (s *ChunkStore) AddChunks(_ context.Context, collection string, chunks []domain.Chunk) error {
	if collection == "" {
		return fmt.Errorf("memory: collection name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.collections[collection]
	if !ok {
		byID = make(map[string]domain.Chunk)
		s.collections[collection] = byID
	}
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}
	return nil
}

// Search returns the topK chunks whose content best matches the query
// terms.
func (s *ChunkStore) Search(_ context.Context, collection, query string, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("memory: collection %q: %w", collection, domain.ErrCollectionNotFound)
	}
	if topK <= 0 {
		return []domain.SearchResult{}, nil
	}

	terms := strings.Fields(strings.ToLower(query))
	results := make([]domain.SearchResult, 0, len(byID))
	for _, chunk := range byID {
		score := overlapScore(terms, chunk.Content)
		if score <= 0 {
			continue
		}
		results = append(results, domain.SearchResult{Chunk: chunk, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Collections returns the names of all collections in the store.
func (s *ChunkStore) Collections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of chunks in a collection.
func (s *ChunkStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// DeleteCollection removes a collection and all of its chunks.
func (s *ChunkStore) DeleteCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; !ok {
		return fmt.Errorf("memory: collection %q: %w", collection, domain.ErrCollectionNotFound)
	}
	delete(s.collections, collection)
	return nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}

// overlapScore is the fraction of query terms present in the content.
func overlapScore(terms []string, content string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lowered := strings.ToLower(content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
