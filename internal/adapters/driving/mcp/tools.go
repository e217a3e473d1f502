package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
	Web      bool   `json:"web,omitempty" jsonschema:"allow web search during the answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the query to run against the knowledge base"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieval result.
type SearchResultOutput struct {
	SourceFile string  `json:"source_file"`
	Domain     string  `json:"domain,omitempty"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// WebSearchInput is the input schema for the web_search tool.
type WebSearchInput struct {
	Query string `json:"query" jsonschema:"the web search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// WebSearchOutput is the output schema for the web_search tool.
type WebSearchOutput struct {
	Results []WebSearchResultOutput `json:"results"`
	Count   int                     `json:"count"`
}

// WebSearchResultOutput represents a single web search result.
type WebSearchResultOutput struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Answer  string `json:"answer,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the knowledge base",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the knowledge base and return ranked chunks",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "web_search",
		Description: "Search the web through the configured provider chain",
	}, s.handleWebSearch)
}

// handleAsk handles the ask tool invocation. The streamed answer is
// collected into a single response.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	events, err := s.ports.Assistant.Answer(ctx, input.Question, nil, input.Web)
	if err != nil {
		return nil, AskOutput{}, err
	}

	var answer strings.Builder
	for ev := range events {
		if ev.Err != nil {
			return nil, AskOutput{}, ev.Err
		}
		answer.WriteString(ev.Text)
	}

	return nil, AskOutput{Answer: answer.String()}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, SearchOutput{Results: []SearchResultOutput{}}, nil
	}

	plan, err := s.ports.Retrieval.Plan(input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, plan)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			SourceFile: results[i].Chunk.SourceFile,
			Domain:     results[i].SubQueryLabel,
			Score:      results[i].Score,
			Content:    results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleWebSearch handles the web_search tool invocation.
func (s *Server) handleWebSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WebSearchInput,
) (*mcp.CallToolResult, WebSearchOutput, error) {
	if s.ports.WebSearch == nil {
		return nil, WebSearchOutput{Results: []WebSearchResultOutput{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	results := s.ports.WebSearch.Search(ctx, input.Query, limit)

	output := WebSearchOutput{
		Results: make([]WebSearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = WebSearchResultOutput{
			Title:   results[i].Title,
			URL:     results[i].URL,
			Snippet: results[i].Snippet,
			Answer:  results[i].Answer,
		}
	}

	return nil, output, nil
}
