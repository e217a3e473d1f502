// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/vera-labs/vera-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/vera-labs/vera-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/vera-labs/vera-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/vera-labs/vera-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/vera-labs/vera-cli/internal/adapters/driven/llm/openai"
	"github.com/vera-labs/vera-cli/internal/adapters/driven/websearch"
	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMClient        driven.LLMClient
	SearchProviders  []driven.SearchProvider // Ordered web search fallback chain.
	Warnings         []string                // Non-fatal issues that caused fallback.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMClient != nil {
		r.LLMClient.Close()
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'vera settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'vera settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMClient creates an LLM client and validates connectivity.
// Returns the client if successful, or an error with guidance.
func CreateAndValidateLLMClient(settings *domain.LLMSettings) (driven.LLMClient, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMClient(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'vera settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'vera settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use by settings commands to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a client and pinging it.
// This is intended for use by settings commands to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMClient(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMClient creates the appropriate LLM client based on settings.
// Returns nil if the provider is not configured.
func CreateLLMClient(settings *domain.LLMSettings) (driven.LLMClient, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateSearchProviders builds the ordered web search fallback chain from
// configured API keys. Providers without a key are absent from the chain.
// Construction failures are reported as warnings rather than errors so a
// single misconfigured provider never disables web search entirely.
func CreateSearchProviders(settings domain.WebSearchSettings) ([]driven.SearchProvider, []string) {
	var providers []driven.SearchProvider
	var warnings []string

	if settings.PerplexityAPIKey != "" {
		p, err := websearch.NewPerplexity(websearch.PerplexityConfig{APIKey: settings.PerplexityAPIKey})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("perplexity disabled: %v", err))
		} else {
			providers = append(providers, p)
		}
	}

	if settings.TavilyAPIKey != "" {
		p, err := websearch.NewTavily(websearch.TavilyConfig{APIKey: settings.TavilyAPIKey})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("tavily disabled: %v", err))
		} else {
			providers = append(providers, p)
		}
	}

	if settings.SerperAPIKey != "" {
		p, err := websearch.NewSerper(websearch.SerperConfig{APIKey: settings.SerperAPIKey})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("serper disabled: %v", err))
		} else {
			providers = append(providers, p)
		}
	}

	if settings.BraveAPIKey != "" {
		p, err := websearch.NewBrave(websearch.BraveConfig{APIKey: settings.BraveAPIKey})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("brave disabled: %v", err))
		} else {
			providers = append(providers, p)
		}
	}

	return providers, warnings
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM client.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMClient {
	return ollamallm.NewLLMClient(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM client.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMClient, error) {
	return openaillm.NewLLMClient(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM client.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMClient, error) {
	return anthropicllm.NewLLMClient(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
