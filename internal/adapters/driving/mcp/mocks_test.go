package mcp

import (
	"context"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	events []domain.StreamEvent
	err    error
}

func (m *mockAssistantService) Answer(
	_ context.Context,
	_ string,
	_ []domain.ChatMessage,
	_ bool,
) (<-chan domain.StreamEvent, error) {
	if m.err != nil {
		return nil, m.err
	}

	ch := make(chan domain.StreamEvent, len(m.events))
	for _, ev := range m.events {
		ch <- ev
	}
	close(ch)

	return ch, nil
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	plan    domain.RetrievalPlan
	planErr error
	results []domain.SearchResult
	err     error
}

func (m *mockRetrievalService) Plan(_ string) (domain.RetrievalPlan, error) {
	return m.plan, m.planErr
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ domain.RetrievalPlan,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockWebSearchService is a mock implementation of driving.WebSearchService.
type mockWebSearchService struct {
	results []domain.WebSearchResult
}

func (m *mockWebSearchService) Search(
	_ context.Context,
	_ string,
	_ int,
) []domain.WebSearchResult {
	return m.results
}

func (m *mockWebSearchService) FormatForContext(_ []domain.WebSearchResult) string {
	return ""
}

// mockChunkStore is a mock implementation of driven.ChunkStore.
type mockChunkStore struct {
	collections []string
	counts      map[string]int
	err         error
}

func (m *mockChunkStore) Search(
	_ context.Context,
	_, _ string,
	_ int,
) ([]domain.SearchResult, error) {
	return nil, m.err
}

func (m *mockChunkStore) AddChunks(_ context.Context, _ string, _ []domain.Chunk) error {
	return m.err
}

func (m *mockChunkStore) Collections(_ context.Context) ([]string, error) {
	return m.collections, m.err
}

func (m *mockChunkStore) Count(_ context.Context, collection string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	count, ok := m.counts[collection]
	if !ok {
		return 0, domain.ErrCollectionNotFound
	}
	return count, nil
}

func (m *mockChunkStore) DeleteCollection(_ context.Context, _ string) error {
	return m.err
}

func (m *mockChunkStore) Close() error {
	return nil
}
