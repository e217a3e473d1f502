package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

func TestTavily_Search(t *testing.T) {
	var gotBody tavilyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"answer": "Go 1.24 is the latest release.",
			"results": []map[string]any{
				{"title": "Go releases", "url": "https://go.dev/doc/devel/release", "content": "Release history", "score": 0.98},
				{"title": "Go blog", "url": "https://go.dev/blog", "content": "Announcements", "score": 0.72},
			},
		})
	}))
	defer server.Close()

	provider, err := NewTavily(TavilyConfig{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	results, err := provider.Search(context.Background(), "latest go release", 5)
	require.NoError(t, err)

	assert.Equal(t, "key", gotBody.APIKey)
	assert.Equal(t, "latest go release", gotBody.Query)
	assert.Equal(t, 5, gotBody.MaxResults)
	assert.True(t, gotBody.IncludeAnswer)

	require.Len(t, results, 2)
	assert.Equal(t, "Go releases", results[0].Title)
	assert.Equal(t, "Go 1.24 is the latest release.", results[0].Answer)
	assert.Empty(t, results[1].Answer)
}

func TestTavily_RequiresAPIKey(t *testing.T) {
	_, err := NewTavily(TavilyConfig{})
	assert.Error(t, err)
}

func TestSerper_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		json.NewEncoder(w).Encode(map[string]any{
			"organic": []map[string]any{
				{"title": "Result A", "link": "https://a.example", "snippet": "aaa"},
				{"title": "Result B", "link": "https://b.example", "snippet": "bbb"},
				{"title": "Result C", "link": "https://c.example", "snippet": "ccc"},
			},
		})
	}))
	defer server.Close()

	provider, err := NewSerper(SerperConfig{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	results, err := provider.Search(context.Background(), "query", 2)
	require.NoError(t, err)

	require.Len(t, results, 2, "results beyond the limit are dropped")
	assert.Equal(t, "Result A", results[0].Title)
	assert.Equal(t, "https://b.example", results[1].URL)
}

func TestBrave_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))

		json.NewEncoder(w).Encode(map[string]any{
			"web": map[string]any{
				"results": []map[string]any{
					{"title": "Go", "url": "https://go.dev", "description": "The Go programming language"},
				},
			},
		})
	}))
	defer server.Close()

	provider, err := NewBrave(BraveConfig{APIKey: "token", BaseURL: server.URL})
	require.NoError(t, err)

	results, err := provider.Search(context.Background(), "golang", 3)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Go", results[0].Title)
	assert.Equal(t, "The Go programming language", results[0].Snippet)
}

func TestPerplexity_SearchWithResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pk", r.Header.Get("Authorization"))

		var req perplexityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, PerplexityModel, req.Model)
		assert.True(t, req.ReturnCitations)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Summary of findings."}},
			},
			"citations": []string{"https://go.dev"},
			"search_results": []map[string]any{
				{"title": "Go docs", "url": "https://go.dev/doc", "snippet": "documentation"},
				{"title": "Go wiki", "url": "https://go.dev/wiki", "snippet": "wiki"},
			},
		})
	}))
	defer server.Close()

	provider, err := NewPerplexity(PerplexityConfig{APIKey: "pk", BaseURL: server.URL})
	require.NoError(t, err)

	results, err := provider.Search(context.Background(), "golang docs", 5)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Summary of findings.", results[0].Answer)
	assert.Equal(t, []string{"https://go.dev"}, results[0].Citations)
	assert.Empty(t, results[1].Answer)
}

func TestPerplexity_AnswerOnlyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "There are no indexed results, but the answer is 42."}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewPerplexity(PerplexityConfig{APIKey: "pk", BaseURL: server.URL})
	require.NoError(t, err)

	results, err := provider.Search(context.Background(), "meaning of life", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Perplexity AI Answer", results[0].Title)
	assert.Equal(t, "https://www.perplexity.ai/", results[0].URL)
	assert.Contains(t, results[0].Answer, "42")
}

func TestProviders_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	tavily, err := NewTavily(TavilyConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = tavily.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	serper, err := NewSerper(SerperConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = serper.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestProviders_FailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	brave, err := NewBrave(BraveConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = brave.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
}
