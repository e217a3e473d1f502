// Package anthropic provides an LLM client adapter using the Anthropic API.
package anthropic

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
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM client.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMClient provides completion operations using the Anthropic API.
type LLMClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// contentBlock is one element of an Anthropic message's content array.
// Which fields are set depends on Type: "text" carries Text, "tool_use"
// carries ID/Name/Input, "tool_result" carries ToolUseID/Content.
type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     map[string]any  `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// toolDeclaration is the Anthropic tool declaration format.
type toolDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	Tools       []toolDeclaration `json:"tools,omitempty"`
	Stream      bool              `json:"stream,omitempty"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// streamEvent is one SSE data payload on the streaming path. Only the
// fields needed to extract text deltas and errors are decoded.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMClient creates a new Anthropic LLM client.
func NewLLMClient(cfg Config) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
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

// Complete performs a blocking completion call, with tool declarations
// when the request carries them.
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

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return nil, apiError(resp.StatusCode, msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, string(body))
	}

	out := &driven.CompletionResponse{StopReason: msgResp.StopReason}
	var text strings.Builder
	for _, block := range msgResp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			out.ToolUses = append(out.ToolUses, driven.ToolUse{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}
	out.Content = text.String()

	return out, nil
}

// Stream performs a streaming completion call over SSE. Tool
// declarations in the request are ignored on this path.
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

			var ev streamEvent
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				continue
			}

			switch ev.Type {
			case "content_block_delta":
				if ev.Delta.Type != "text_delta" || ev.Delta.Text == "" {
					continue
				}
				select {
				case chunks <- driven.CompletionChunk{Text: ev.Delta.Text}:
				case <-ctx.Done():
					return
				}
			case "error":
				msg := "stream error"
				if ev.Error != nil {
					msg = ev.Error.Message
				}
				select {
				case chunks <- driven.CompletionChunk{Err: fmt.Errorf("anthropic: %s", msg)}:
				case <-ctx.Done():
				}
				return
			case "message_stop":
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

// buildRequest maps the port request onto the Anthropic wire format.
func (c *LLMClient) buildRequest(req driven.CompletionRequest, stream bool) messagesRequest {
	apiMessages := make([]messagesMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		apiMessages = append(apiMessages, encodeMessage(msg))
	}

	// Anthropic requires max_tokens to be set.
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	out := messagesRequest{
		Model:     c.model,
		Messages:  apiMessages,
		MaxTokens: maxTokens,
		System:    req.System,
		Stream:    stream,
	}
	if req.Temperature > 0 {
		out.Temperature = req.Temperature
	}
	for _, tool := range req.Tools {
		out.Tools = append(out.Tools, toolDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return out
}

// encodeMessage converts one port message into Anthropic content blocks.
func encodeMessage(msg driven.Message) messagesMessage {
	blocks := make([]contentBlock, 0, 1+len(msg.ToolUses)+len(msg.ToolResults))
	if msg.Content != "" {
		blocks = append(blocks, contentBlock{Type: "text", Text: msg.Content})
	}
	for _, use := range msg.ToolUses {
		input := use.Input
		if input == nil {
			input = map[string]any{}
		}
		blocks = append(blocks, contentBlock{
			Type:  "tool_use",
			ID:    use.ID,
			Name:  use.Name,
			Input: input,
		})
	}
	for _, result := range msg.ToolResults {
		content, _ := json.Marshal(result.Content)
		blocks = append(blocks, contentBlock{
			Type:      "tool_result",
			ToolUseID: result.ToolUseID,
			Content:   content,
		})
	}
	if len(blocks) == 0 {
		blocks = append(blocks, contentBlock{Type: "text", Text: ""})
	}
	return messagesMessage{Role: msg.Role, Content: blocks}
}

// newRequest builds the POST /v1/messages request.
func (c *LLMClient) newRequest(ctx context.Context, body messagesRequest) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	return req, nil
}

// apiError maps HTTP status codes onto domain error categories.
func apiError(status int, detail string) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("anthropic error (status %d): %s: %w", status, detail, domain.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("anthropic error (status %d): %s: %w", status, detail, domain.ErrLLMUnavailable)
	default:
		return fmt.Errorf("anthropic error (status %d): %s", status, detail)
	}
}

// ModelName returns the name of the LLM model being used.
func (c *LLMClient) ModelName() string {
	return c.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (c *LLMClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("anthropic: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (c *LLMClient) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
