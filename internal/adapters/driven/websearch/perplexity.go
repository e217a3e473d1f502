package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
)

// Ensure Perplexity implements the interface.
var _ driven.SearchProvider = (*Perplexity)(nil)

// Perplexity defaults. The timeout is generous because the API runs
// inference before answering.
const (
	PerplexityBaseURL = "https://api.perplexity.ai"
	PerplexityModel   = "sonar"
	PerplexityTimeout = 30 * time.Second

	// perplexityRate throttles proactive request frequency (req/sec).
	perplexityRate = 2

	// perplexityMaxTokens bounds the synthesised answer length.
	perplexityMaxTokens = 1000

	// perplexityAnswerLimit truncates the fallback answer snippet.
	perplexityAnswerLimit = 500
)

// perplexitySystemPrompt steers the model towards citation-backed
// search output rather than open-ended chat.
const perplexitySystemPrompt = "You are a web search assistant. Provide accurate, " +
	"up-to-date information with sources. Be concise and factual."

// PerplexityConfig holds configuration for the Perplexity provider.
type PerplexityConfig struct {
	// APIKey is the Perplexity API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.perplexity.ai).
	BaseURL string

	// Model is the model to query (default: sonar).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Perplexity searches the web through the Perplexity chat API. Unlike
// the plain index providers it returns a synthesised answer alongside
// (or instead of) discrete results.
type Perplexity struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// perplexityRequest is the Perplexity /chat/completions request format.
type perplexityRequest struct {
	Model           string              `json:"model"`
	Messages        []perplexityMessage `json:"messages"`
	MaxTokens       int                 `json:"max_tokens"`
	Temperature     float64             `json:"temperature"`
	ReturnCitations bool                `json:"return_citations"`
}

// perplexityMessage is the Perplexity chat message format.
type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// perplexityResponse is the Perplexity /chat/completions response format.
type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations     []string `json:"citations"`
	SearchResults []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"search_results"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewPerplexity creates a new Perplexity search provider.
func NewPerplexity(cfg PerplexityConfig) (*Perplexity, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perplexity: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = PerplexityBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = PerplexityModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = PerplexityTimeout
	}

	return &Perplexity{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(perplexityRate), 1),
	}, nil
}

// Name returns the provider identifier.
func (p *Perplexity) Name() string {
	return "perplexity"
}

// Search queries Perplexity and maps its answer and citations onto
// search results. When the API returns no discrete results, the
// synthesised answer alone is returned.
func (p *Perplexity) Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody := perplexityRequest{
		Model: p.model,
		Messages: []perplexityMessage{
			{Role: "system", Content: perplexitySystemPrompt},
			{Role: "user", Content: query},
		},
		MaxTokens:       perplexityMaxTokens,
		Temperature:     0.2,
		ReturnCitations: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providerError("perplexity", resp.StatusCode, string(body))
	}

	var apiResp perplexityResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("perplexity error: %s", apiResp.Error.Message)
	}

	var answer string
	if len(apiResp.Choices) > 0 {
		answer = apiResp.Choices[0].Message.Content
	}

	if len(apiResp.SearchResults) == 0 {
		if answer == "" {
			return nil, nil
		}
		snippet := answer
		if len(snippet) > perplexityAnswerLimit {
			snippet = snippet[:perplexityAnswerLimit]
		}
		return []domain.WebSearchResult{{
			Title:     "Perplexity AI Answer",
			URL:       "https://www.perplexity.ai/",
			Snippet:   snippet,
			Answer:    answer,
			Citations: apiResp.Citations,
		}}, nil
	}

	results := make([]domain.WebSearchResult, 0, maxResults)
	for i, r := range apiResp.SearchResults {
		if i >= maxResults {
			break
		}
		result := domain.WebSearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		}
		// The answer rides on the first result so it leads the
		// formatted context block.
		if i == 0 {
			result.Answer = answer
			result.Citations = apiResp.Citations
		}
		results = append(results, result)
	}

	return results, nil
}
