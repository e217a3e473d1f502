package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
)

// Ensure Brave implements the interface.
var _ driven.SearchProvider = (*Brave)(nil)

// Brave defaults. The free tier allows one request per second, so the
// proactive throttle matches it.
const (
	BraveBaseURL = "https://api.search.brave.com"
	BraveTimeout = 10 * time.Second

	braveRate = 1
)

// BraveConfig holds configuration for the Brave provider.
type BraveConfig struct {
	// APIKey is the Brave subscription token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.search.brave.com).
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// Brave searches the web through the Brave Search API.
type Brave struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// braveResponse is the Brave /res/v1/web/search response format.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// NewBrave creates a new Brave search provider.
func NewBrave(cfg BraveConfig) (*Brave, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("brave: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = BraveBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = BraveTimeout
	}

	return &Brave{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(braveRate), 1),
	}, nil
}

// Name returns the provider identifier.
func (b *Brave) Name() string {
	return "brave"
}

// Search queries the Brave Search API.
func (b *Brave) Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchResult, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		b.baseURL+"/res/v1/web/search?"+params.Encode(),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, providerError("brave", resp.StatusCode, string(body))
	}

	var apiResp braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.WebSearchResult, 0, maxResults)
	for i, r := range apiResp.Web.Results {
		if i >= maxResults {
			break
		}
		results = append(results, domain.WebSearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
		})
	}

	return results, nil
}
