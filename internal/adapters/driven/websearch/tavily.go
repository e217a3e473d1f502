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

// Ensure Tavily implements the interface.
var _ driven.SearchProvider = (*Tavily)(nil)

// Tavily defaults.
const (
	TavilyBaseURL = "https://api.tavily.com"
	TavilyTimeout = 10 * time.Second

	// tavilyRate throttles proactive request frequency (req/sec).
	tavilyRate = 2
)

// TavilyConfig holds configuration for the Tavily provider.
type TavilyConfig struct {
	// APIKey is the Tavily API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.tavily.com).
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// Tavily searches the web through the Tavily search API.
type Tavily struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// tavilyRequest is the Tavily /search request format. The API key
// travels in the body rather than a header.
type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

// tavilyResponse is the Tavily /search response format.
type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// NewTavily creates a new Tavily search provider.
func NewTavily(cfg TavilyConfig) (*Tavily, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tavily: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = TavilyBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = TavilyTimeout
	}

	return &Tavily{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(tavilyRate), 1),
	}, nil
}

// Name returns the provider identifier.
func (t *Tavily) Name() string {
	return "tavily"
}

// Search queries the Tavily search API.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchResult, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqBody := tavilyRequest{
		APIKey:        t.apiKey,
		Query:         query,
		MaxResults:    maxResults,
		IncludeAnswer: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, providerError("tavily", resp.StatusCode, string(body))
	}

	var apiResp tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.WebSearchResult, 0, len(apiResp.Results))
	for i, r := range apiResp.Results {
		result := domain.WebSearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		}
		if i == 0 {
			result.Answer = apiResp.Answer
		}
		results = append(results, result)
	}

	return results, nil
}
