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

// Ensure Serper implements the interface.
var _ driven.SearchProvider = (*Serper)(nil)

// Serper defaults.
const (
	SerperBaseURL = "https://google.serper.dev"
	SerperTimeout = 10 * time.Second

	// serperRate throttles proactive request frequency (req/sec).
	serperRate = 2
)

// SerperConfig holds configuration for the Serper provider.
type SerperConfig struct {
	// APIKey is the Serper API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://google.serper.dev).
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// Serper searches Google results through the Serper API.
type Serper struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// serperRequest is the Serper /search request format.
type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

// serperResponse is the Serper /search response format.
type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// NewSerper creates a new Serper search provider.
func NewSerper(cfg SerperConfig) (*Serper, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serper: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = SerperBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = SerperTimeout
	}

	return &Serper{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(serperRate), 1),
	}, nil
}

// Name returns the provider identifier.
func (s *Serper) Name() string {
	return "serper"
}

// Search queries the Serper search API.
func (s *Serper) Search(ctx context.Context, query string, maxResults int) ([]domain.WebSearchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(serperRequest{Query: query, Num: maxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, providerError("serper", resp.StatusCode, string(body))
	}

	var apiResp serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.WebSearchResult, 0, maxResults)
	for i, r := range apiResp.Organic {
		if i >= maxResults {
			break
		}
		results = append(results, domain.WebSearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}

	return results, nil
}
