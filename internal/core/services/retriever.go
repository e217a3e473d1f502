package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/core/ports/driving"
	"github.com/vera-labs/vera-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// dedupPrefixLen is the number of leading content characters compared
// when deduplicating results. Tunable: a shared boilerplate prefix can
// over-merge and differing lead text can under-merge, but comparison
// stays O(1) per pair.
const dedupPrefixLen = 100

// RetrievalService executes retrieval plans against the chunk store:
// fan-out across sub-queries, deduplication, ranking, and truncation
// to the plan's context budget.
type RetrievalService struct {
	planner    *RetrievalPlanner
	store      driven.ChunkStore
	collection string
}

// NewRetrievalService creates a retrieval service searching the named
// collection.
func NewRetrievalService(planner *RetrievalPlanner, store driven.ChunkStore, collection string) *RetrievalService {
	return &RetrievalService{
		planner:    planner,
		store:      store,
		collection: collection,
	}
}

// Plan classifies the query and returns its retrieval plan.
func (s *RetrievalService) Plan(query string) (domain.RetrievalPlan, error) {
	return s.planner.Plan(query)
}

// Retrieve executes every sub-query in the plan, deduplicates the
// union, ranks it by score, and truncates to the plan budget.
//
// A missing collection or an unreachable store degrades to an empty
// result set rather than an error: a fresh knowledge base legitimately
// has nothing indexed, and callers must handle "no context" as a
// normal state.
func (s *RetrievalService) Retrieve(ctx context.Context, plan domain.RetrievalPlan) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Mode: %s, sub-queries: %d, budget: %d", plan.Mode, len(plan.SubQueries), plan.Budget)

	if s.store == nil {
		logger.Warn("Retrieval: chunk store unavailable, returning no context")
		return []domain.SearchResult{}, nil
	}

	// Fan out sub-queries concurrently. Output order must not depend
	// on completion order, so each goroutine writes its own slot.
	pools := make([][]domain.SearchResult, len(plan.SubQueries))

	var wg sync.WaitGroup
	for i, sq := range plan.SubQueries {
		wg.Add(1)
		go func(slot int, sq domain.SubQuery) {
			defer wg.Done()
			results, err := s.store.Search(ctx, s.collection, sq.Text, sq.Limit)
			if err != nil {
				if errors.Is(err, domain.ErrCollectionNotFound) {
					logger.Debug("Retrieval: collection %q not found", s.collection)
				} else {
					logger.Warn("Retrieval: sub-query %q failed: %v", sq.Label, err)
				}
				return
			}
			for r := range results {
				results[r].SubQueryLabel = sq.Label
			}
			pools[slot] = results
		}(i, sq)
	}
	wg.Wait()

	// Flatten in sub-query order so deduplication and tie-breaking
	// respect the plan's domain ordering.
	var raw []domain.SearchResult
	for _, pool := range pools {
		raw = append(raw, pool...)
	}
	logger.Debug("Retrieval: raw pool %d results", len(raw))

	unique := dedupeByPrefix(raw)
	logger.Debug("Retrieval: %d after dedup", len(unique))

	// Rank by score descending. The sort is stable so ties keep the
	// original sub-query order.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	if plan.Budget > 0 && len(unique) > plan.Budget {
		unique = unique[:plan.Budget]
	}
	logger.Info("Retrieval: final %d results", len(unique))

	return unique, nil
}

// dedupeByPrefix drops results whose content shares a fixed-length
// prefix with an earlier result. First occurrence wins. Idempotent by
// construction.
func dedupeByPrefix(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	unique := make([]domain.SearchResult, 0, len(results))

	for _, r := range results {
		key := r.Chunk.Content
		if len(key) > dedupPrefixLen {
			key = key[:dedupPrefixLen]
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}

	return unique
}
