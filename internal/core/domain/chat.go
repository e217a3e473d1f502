package domain

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single turn in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// StreamEvent is one fragment of a streamed answer. The stream is
// finite; it terminates when generation completes or fails.
type StreamEvent struct {
	// Text is the answer fragment. May be empty on tool or error events.
	Text string

	// ToolUsed names a tool the assistant invoked while producing this
	// part of the answer ("web_search"). Empty otherwise.
	ToolUsed string

	// Err carries a terminal failure. The stream closes after an
	// event with a non-nil Err.
	Err error
}
