package cli

import (
	"context"
	"errors"

	"github.com/vera-labs/vera-cli/internal/adapters/driven/storage/memory"
	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// mockAssistantService streams a fixed sequence of events.
type mockAssistantService struct {
	events []domain.StreamEvent
	err    error

	lastQuery   string
	lastHistory []domain.ChatMessage
	lastWeb     bool
}

func (m *mockAssistantService) Answer(
	_ context.Context,
	query string,
	history []domain.ChatMessage,
	webSearch bool,
) (<-chan domain.StreamEvent, error) {
	m.lastQuery = query
	m.lastHistory = history
	m.lastWeb = webSearch

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

// mockRetrievalService returns fixed plans and results.
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

// mockWebSearchService returns fixed web results.
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

// mockSettingsService serves fixed settings without touching disk.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings != nil {
		return m.settings, nil
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetSearchProviderKey(_, _ string) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }

// errAssistantService fails every call.
type errAssistantService struct{}

func (e *errAssistantService) Answer(
	_ context.Context,
	_ string,
	_ []domain.ChatMessage,
	_ bool,
) (<-chan domain.StreamEvent, error) {
	return nil, errors.New("assistant unavailable")
}

// setupTestServices swaps the package-level services for mocks and
// returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldAssistant := assistantService
	oldRetrieval := retrievalService
	oldWebSearch := webSearchService
	oldSettings := settingsService
	oldChunks := chunkStore

	assistantService = &mockAssistantService{
		events: []domain.StreamEvent{{Text: "mock answer"}},
	}
	retrievalService = &mockRetrievalService{
		plan: domain.RetrievalPlan{
			Mode:   domain.PlanModeSinglePass,
			Budget: 10,
			SubQueries: []domain.SubQuery{
				{Text: "test query", Limit: 10},
			},
		},
		results: []domain.SearchResult{
			{
				Chunk: domain.Chunk{
					ID:         "chunk-1",
					SourceFile: "guide.md",
					Content:    "mock chunk content",
				},
				Score: 0.92,
			},
		},
	}
	webSearchService = &mockWebSearchService{
		results: []domain.WebSearchResult{
			{
				Title:   "Mock Result",
				URL:     "https://example.com",
				Snippet: "mock snippet",
			},
		},
	}
	settingsService = &mockSettingsService{}
	chunkStore = memory.NewChunkStore()

	return func() {
		assistantService = oldAssistant
		retrievalService = oldRetrieval
		webSearchService = oldWebSearch
		settingsService = oldSettings
		chunkStore = oldChunks
	}
}
