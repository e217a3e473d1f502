package driven

import "context"

// LLMClient invokes the external completion model.
//
// Implementations may include:
//   - Anthropic (Claude) - supports tools and streaming
//   - OpenAI (GPT-4o) - streaming only
//
// The model is treated as an external oracle behind a fixed
// request/response contract; the core never inspects its reasoning.
type LLMClient interface {
	// Complete performs a blocking completion call. The response may
	// carry tool-use requests when the request declared tools.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Stream performs a streaming completion call. The returned channel
	// is closed when generation finishes; a chunk with a non-nil Err
	// terminates the stream. Tool declarations are not supported on the
	// streaming path.
	Stream(ctx context.Context, req CompletionRequest) (<-chan CompletionChunk, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest is a single request to the completion model.
type CompletionRequest struct {
	// System is the system directive.
	System string

	// Messages is the conversation history, oldest first.
	Messages []Message

	// Tools declares callable tools. Empty means no tool use.
	Tools []ToolDefinition

	// MaxTokens caps the generated output length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// Message is one conversation turn in a completion request.
// Exactly one of Content, ToolUses, or ToolResults is normally set;
// assistant turns may combine Content and ToolUses.
type Message struct {
	// Role is one of "user" or "assistant". System directives travel
	// in CompletionRequest.System, not as messages.
	Role string

	// Content is the plain text of the turn.
	Content string

	// ToolUses echoes the model's tool requests back in an assistant
	// turn during a tool round trip.
	ToolUses []ToolUse

	// ToolResults carries tool outputs in a user turn during a tool
	// round trip.
	ToolResults []ToolResult
}

// ToolDefinition declares a callable tool to the model.
type ToolDefinition struct {
	// Name is the tool's identifier ("web_search").
	Name string

	// Description tells the model when to invoke the tool.
	Description string

	// InputSchema is the JSON Schema for the tool's input object.
	InputSchema map[string]any
}

// ToolUse is the model's request to invoke a declared tool.
type ToolUse struct {
	// ID correlates the request with its ToolResult.
	ID string

	// Name is the requested tool.
	Name string

	// Input is the decoded input object.
	Input map[string]any
}

// ToolResult is the caller-produced output for one ToolUse.
type ToolResult struct {
	// ToolUseID matches the ToolUse.ID being answered.
	ToolUseID string

	// Content is the tool output text fed back to the model.
	Content string
}

// CompletionResponse is the model's reply to a blocking call.
type CompletionResponse struct {
	// Content is the generated text, possibly partial when the model
	// stopped to request tool use.
	Content string

	// ToolUses lists tool invocations the model requested. Empty when
	// generation completed normally.
	ToolUses []ToolUse

	// StopReason is the provider's stop reason ("end_turn", "tool_use").
	StopReason string
}

// CompletionChunk is one fragment of a streamed completion.
type CompletionChunk struct {
	// Text is the generated fragment.
	Text string

	// Err terminates the stream when non-nil.
	Err error
}
