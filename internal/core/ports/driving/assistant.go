package driving

import (
	"context"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// AssistantService answers user queries with retrieval-augmented
// completions.
type AssistantService interface {
	// Answer produces a finite stream of answer fragments for the
	// query. History is the prior conversation, oldest first, and does
	// not include the query itself. When webSearch is true the model
	// may invoke the web search tool mid-generation.
	//
	// The returned channel is closed when generation completes. An
	// event with a non-nil Err terminates the stream; invalid input
	// and LLM construction failures are returned directly.
	Answer(ctx context.Context, query string, history []domain.ChatMessage, webSearch bool) (<-chan domain.StreamEvent, error)
}
