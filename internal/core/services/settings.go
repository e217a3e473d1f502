package services

import (
	"fmt"
	"os"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyPerplexityKey = "websearch.perplexity_api_key"
	keyTavilyKey     = "websearch.tavily_api_key"
	keySerperKey     = "websearch.serper_api_key"
	keyBraveKey      = "websearch.brave_api_key"
	keyCollection    = "retrieval.collection"
	keyDomains       = "retrieval.domains"
)

// Environment variables checked when a key is absent from config.
const (
	envAnthropicKey  = "ANTHROPIC_API_KEY"
	envOpenAIKey     = "OPENAI_API_KEY"
	envPerplexityKey = "PERPLEXITY_API_KEY"
	envTavilyKey     = "TAVILY_API_KEY"
	envSerperKey     = "SERPER_API_KEY"
	envBraveKey      = "BRAVE_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// API keys missing from config fall back to environment variables.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.getSecret(keyEmbedAPIKey, envOpenAIKey),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.getSecret(keyLLMAPIKey, llmKeyEnvVar(llmProvider)),
		},
		WebSearch: domain.WebSearchSettings{
			PerplexityAPIKey: s.getSecret(keyPerplexityKey, envPerplexityKey),
			TavilyAPIKey:     s.getSecret(keyTavilyKey, envTavilyKey),
			SerperAPIKey:     s.getSecret(keySerperKey, envSerperKey),
			BraveAPIKey:      s.getSecret(keyBraveKey, envBraveKey),
		},
		Retrieval: domain.RetrievalSettings{
			Collection: s.getString(keyCollection, defaults.Retrieval.Collection),
			Domains:    s.configStore.GetStringSlice(keyDomains),
		},
	}

	return settings, nil
}

// Save persists application settings. API keys are only written when set,
// so environment-sourced keys never land in the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != os.Getenv(envOpenAIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != os.Getenv(llmKeyEnvVar(settings.LLM.Provider)) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyCollection, settings.Retrieval.Collection); err != nil {
		return fmt.Errorf("save retrieval collection: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" && os.Getenv(envOpenAIKey) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" && os.Getenv(llmKeyEnvVar(provider)) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetSearchProviderKey stores an API key for a web search provider.
func (s *SettingsService) SetSearchProviderKey(provider, apiKey string) error {
	keys := map[string]string{
		"perplexity": keyPerplexityKey,
		"tavily":     keyTavilyKey,
		"serper":     keySerperKey,
		"brave":      keyBraveKey,
	}

	configKey, ok := keys[provider]
	if !ok {
		return fmt.Errorf("unknown search provider: %s", provider)
	}

	if err := s.configStore.Set(configKey, apiKey); err != nil {
		return fmt.Errorf("save %s api_key: %w", provider, err)
	}
	return nil
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getSecret reads a credential from config, falling back to an environment
// variable when the config value is empty.
func (s *SettingsService) getSecret(key, envVar string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// llmKeyEnvVar maps an LLM provider to its conventional API key variable.
func llmKeyEnvVar(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderAnthropic:
		return envAnthropicKey
	case domain.AIProviderOpenAI:
		return envOpenAIKey
	default:
		return ""
	}
}
