// Package openai provides an LLM client adapter using the OpenAI API.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
)

// Ensure LLMClient implements the interface.
var _ driven.LLMClient = (*LLMClient)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the OpenAI LLM client.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMClient provides completion operations using the OpenAI API.
type LLMClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionMsg is the OpenAI chat message format. Tool calls and
// tool results ride on dedicated fields rather than content blocks.
type chatCompletionMsg struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// toolCall is the OpenAI function-call format.
type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// toolDeclaration is the OpenAI tool declaration format.
type toolDeclaration struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
	Tools       []toolDeclaration   `json:"tools,omitempty"`
	Stream      bool                `json:"stream,omitempty"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// streamChunk is one SSE data payload on the streaming path.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMClient creates a new OpenAI LLM client.
func NewLLMClient(cfg LLMConfig) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Complete performs a blocking completion call.
func (c *LLMClient) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	httpReq, err := c.newRequest(ctx, c.buildRequest(req, false))
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, apiError(resp.StatusCode, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no response choices returned")
	}

	choice := chatResp.Choices[0]
	out := &driven.CompletionResponse{
		Content:    choice.Message.Content,
		StopReason: choice.FinishReason,
	}
	for _, call := range choice.Message.ToolCalls {
		var input map[string]any
		if err := json.Unmarshal([]byte(call.Function.Arguments), &input); err != nil {
			input = map[string]any{}
		}
		out.ToolUses = append(out.ToolUses, driven.ToolUse{
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: input,
		})
	}

	return out, nil
}

// Stream performs a streaming completion call over SSE.
func (c *LLMClient) Stream(ctx context.Context, req driven.CompletionRequest) (<-chan driven.CompletionChunk, error) {
	body := c.buildRequest(req, true)
	body.Tools = nil

	httpReq, err := c.newRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, apiError(resp.StatusCode, string(raw))
	}

	chunks := make(chan driven.CompletionChunk)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			payload := strings.TrimPrefix(line, "data: ")
			if payload == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}
			if chunk.Error != nil {
				select {
				case chunks <- driven.CompletionChunk{Err: fmt.Errorf("openai: %s", chunk.Error.Message)}:
				case <-ctx.Done():
				}
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case chunks <- driven.CompletionChunk{Text: chunk.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case chunks <- driven.CompletionChunk{Err: fmt.Errorf("read stream: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return chunks, nil
}

// buildRequest maps the port request onto the OpenAI wire format. The
// system directive becomes the leading "system" message; tool results
// become "tool" role messages keyed by call ID.
func (c *LLMClient) buildRequest(req driven.CompletionRequest, stream bool) chatCompletionRequest {
	messages := make([]chatCompletionMsg, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, chatCompletionMsg{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		messages = append(messages, encodeMessages(msg)...)
	}

	out := chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   stream,
	}
	if req.MaxTokens > 0 {
		out.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		out.Temperature = req.Temperature
	}
	for _, tool := range req.Tools {
		var decl toolDeclaration
		decl.Type = "function"
		decl.Function.Name = tool.Name
		decl.Function.Description = tool.Description
		decl.Function.Parameters = tool.InputSchema
		out.Tools = append(out.Tools, decl)
	}
	return out
}

// encodeMessages converts one port message into OpenAI chat messages.
// A message carrying tool results expands to one "tool" message per
// result.
func encodeMessages(msg driven.Message) []chatCompletionMsg {
	if len(msg.ToolResults) > 0 {
		out := make([]chatCompletionMsg, 0, len(msg.ToolResults))
		for _, result := range msg.ToolResults {
			out = append(out, chatCompletionMsg{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: result.ToolUseID,
			})
		}
		return out
	}

	encoded := chatCompletionMsg{Role: msg.Role, Content: msg.Content}
	for _, use := range msg.ToolUses {
		args, _ := json.Marshal(use.Input)
		call := toolCall{ID: use.ID, Type: "function"}
		call.Function.Name = use.Name
		call.Function.Arguments = string(args)
		encoded.ToolCalls = append(encoded.ToolCalls, call)
	}
	return []chatCompletionMsg{encoded}
}

// newRequest builds the POST /chat/completions request.
func (c *LLMClient) newRequest(ctx context.Context, body chatCompletionRequest) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// apiError maps HTTP status codes onto domain error categories.
func apiError(status int, detail string) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("openai error (status %d): %s: %w", status, detail, domain.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("openai error (status %d): %s: %w", status, detail, domain.ErrLLMUnavailable)
	default:
		return fmt.Errorf("openai error (status %d): %s", status, detail)
	}
}

// ModelName returns the name of the LLM model being used.
func (c *LLMClient) ModelName() string {
	return c.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (c *LLMClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (c *LLMClient) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
