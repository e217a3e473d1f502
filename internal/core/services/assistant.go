package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/core/ports/driving"
	"github.com/vera-labs/vera-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// Generation limits.
const (
	// maxToolRounds bounds the tool-use round trips per answer.
	maxToolRounds = 3

	// defaultMaxTokens caps the generated answer length.
	defaultMaxTokens = 4000

	// defaultTemperature keeps answers factual and repeatable.
	defaultTemperature = 0.2

	// transientRetryDelay is the backoff before the single retry on a
	// transient network failure.
	transientRetryDelay = 500 * time.Millisecond
)

// WebSearchTool is the tool declaration advertised to the model when
// web search is enabled.
var WebSearchTool = driven.ToolDefinition{
	Name: "web_search",
	Description: "Search the web for current information, news, and facts not " +
		"available in the knowledge base. Use this when you need up-to-date " +
		"information or external references. Do NOT use it for questions the " +
		"internal knowledge base can answer.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query. Be specific and include key terms.",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of search results to return (default: 5, max: 10)",
				"default":     DefaultWebResults,
			},
		},
		"required": []string{"query"},
	},
}

// defaultSystemPrompt is the fallback when no PromptStore is
// configured or the stored prompt cannot be loaded.
const defaultSystemPrompt = `You are Vera, an assistant for strategic transformation work.
Answer from the provided knowledge base context when it is relevant.
If the context does not cover the question, say so rather than inventing details.`

// toolLoopState tracks the tool-use round trip state machine.
type toolLoopState int

const (
	stateGenerating toolLoopState = iota
	stateAwaitingTool
	stateCompleted
	stateAborted
)

// AssistantService orchestrates a full answer: retrieval, prompt
// assembly, model invocation, and the web-search tool round trip.
type AssistantService struct {
	retrieval driving.RetrievalService
	webSearch driving.WebSearchService
	llm       driven.LLMClient
	prompts   driven.PromptStore

	maxTokens   int
	temperature float64
}

// NewAssistantService creates an assistant. The retrieval and web
// search services are optional (nil degrades to no context and a
// no-results tool); the LLM client is required at answer time.
func NewAssistantService(
	retrieval driving.RetrievalService,
	webSearch driving.WebSearchService,
	llm driven.LLMClient,
	prompts driven.PromptStore,
) *AssistantService {
	return &AssistantService{
		retrieval:   retrieval,
		webSearch:   webSearch,
		llm:         llm,
		prompts:     prompts,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

// Answer produces a finite stream of answer fragments for the query.
// See driving.AssistantService for the contract.
func (s *AssistantService) Answer(
	ctx context.Context, query string, history []domain.ChatMessage, webSearch bool,
) (<-chan domain.StreamEvent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	logger.Section("Answer")
	logger.Debug("Query: %q, web search: %t", query, webSearch)

	mode := SelectMode(query)
	logger.Info("Response mode: %s", mode)

	system := s.assembleSystem(ctx, query, mode)

	messages := make([]driven.Message, 0, len(history)+1)
	for _, m := range history {
		if m.Role == domain.RoleSystem {
			continue
		}
		messages = append(messages, driven.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, driven.Message{Role: domain.RoleUser, Content: query})

	events := make(chan domain.StreamEvent)
	if webSearch {
		go s.answerWithTools(ctx, events, system, messages)
	} else {
		go s.answerStreaming(ctx, events, system, messages)
	}

	return events, nil
}

// loadSystemPrompt returns the operator-customised system prompt, or
// the compiled-in default when none is stored.
func (s *AssistantService) loadSystemPrompt() string {
	if s.prompts == nil {
		return defaultSystemPrompt
	}
	prompt, err := s.prompts.Load(driven.PromptSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		logger.Debug("Answer: using default system prompt (%v)", err)
		return defaultSystemPrompt
	}
	return prompt
}

// assembleSystem builds the system directive: base prompt, mode
// directive, and retrieved context with source attribution.
func (s *AssistantService) assembleSystem(ctx context.Context, query string, mode domain.ResponseMode) string {
	var b strings.Builder
	b.WriteString(s.loadSystemPrompt())
	b.WriteString("\n\nResponse format: ")
	b.WriteString(mode.Directive())

	results := s.retrieveContext(ctx, query)
	if len(results) == 0 {
		logger.Debug("Answer: no knowledge base context available")
		return b.String()
	}

	b.WriteString("\n\nRelevant context from the knowledge base:\n")

	sources := make([]string, 0, len(results))
	seen := make(map[string]bool)
	for _, r := range results {
		fmt.Fprintf(&b, "\nDocument: %s\nContent: %s\n", r.Chunk.SourceFile, r.Chunk.Content)
		if !seen[r.Chunk.SourceFile] {
			seen[r.Chunk.SourceFile] = true
			sources = append(sources, r.Chunk.SourceFile)
		}
	}

	fmt.Fprintf(&b, "\nIMPORTANT: End your response with a 'Sources:' section listing the documents you referenced: %s",
		strings.Join(sources, ", "))

	return b.String()
}

// retrieveContext runs the retrieval pipeline, absorbing failures into
// "no context". The model may still answer from general knowledge.
func (s *AssistantService) retrieveContext(ctx context.Context, query string) []domain.SearchResult {
	if s.retrieval == nil {
		return nil
	}

	plan, err := s.retrieval.Plan(query)
	if err != nil {
		logger.Warn("Answer: planning failed: %v", err)
		return nil
	}

	results, err := s.retrieval.Retrieve(ctx, plan)
	if err != nil {
		logger.Warn("Answer: retrieval failed, continuing without context: %v", err)
		return nil
	}
	return results
}

// answerStreaming streams the completion with no tools declared.
func (s *AssistantService) answerStreaming(
	ctx context.Context, events chan<- domain.StreamEvent, system string, messages []driven.Message,
) {
	defer close(events)

	req := driven.CompletionRequest{
		System:      system,
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	chunks, err := s.llm.Stream(ctx, req)
	if err != nil && isTransient(err) {
		logger.Warn("Answer: transient stream error, retrying once: %v", err)
		time.Sleep(transientRetryDelay)
		chunks, err = s.llm.Stream(ctx, req)
	}
	if err != nil {
		s.emit(ctx, events, domain.StreamEvent{Err: fmt.Errorf("completion: %w", err)})
		return
	}

	for chunk := range chunks {
		if chunk.Err != nil {
			s.emit(ctx, events, domain.StreamEvent{Err: fmt.Errorf("completion: %w", chunk.Err)})
			return
		}
		if !s.emit(ctx, events, domain.StreamEvent{Text: chunk.Text}) {
			return
		}
	}
}

// answerWithTools runs the blocking completion loop with the web
// search tool declared, executing tool rounds until the model stops
// requesting them or the round budget runs out.
func (s *AssistantService) answerWithTools(
	ctx context.Context, events chan<- domain.StreamEvent, system string, messages []driven.Message,
) {
	defer close(events)

	state := stateGenerating
	rounds := 0

	for state == stateGenerating {
		resp, err := s.complete(ctx, driven.CompletionRequest{
			System:      system,
			Messages:    messages,
			Tools:       []driven.ToolDefinition{WebSearchTool},
			MaxTokens:   s.maxTokens,
			Temperature: s.temperature,
		})
		if err != nil {
			s.emit(ctx, events, domain.StreamEvent{Err: fmt.Errorf("completion: %w", err)})
			return
		}

		if resp.Content != "" {
			if !s.emit(ctx, events, domain.StreamEvent{Text: resp.Content}) {
				return
			}
		}

		if len(resp.ToolUses) == 0 {
			state = stateCompleted
			break
		}

		state = stateAwaitingTool
		rounds++
		if rounds > maxToolRounds {
			logger.Warn("Answer: %v after %d rounds", domain.ErrToolLoopExceeded, maxToolRounds)
			s.emit(ctx, events, domain.StreamEvent{
				Text: fmt.Sprintf("\n\n[%s; answer may be incomplete.]", domain.ErrToolLoopExceeded),
			})
			state = stateAborted
			break
		}

		results := s.executeTools(ctx, events, resp.ToolUses)

		// Echo the model's tool request and feed the results back.
		messages = append(messages,
			driven.Message{Role: domain.RoleAssistant, Content: resp.Content, ToolUses: resp.ToolUses},
			driven.Message{Role: domain.RoleUser, ToolResults: results},
		)
		state = stateGenerating
	}
}

// executeTools runs each requested tool and collects results keyed by
// tool-use ID. Unknown tools get an explicit error result so the model
// can recover.
func (s *AssistantService) executeTools(
	ctx context.Context, events chan<- domain.StreamEvent, uses []driven.ToolUse,
) []driven.ToolResult {
	results := make([]driven.ToolResult, 0, len(uses))

	for _, use := range uses {
		if use.Name != WebSearchTool.Name {
			logger.Warn("Answer: model requested unknown tool %q", use.Name)
			results = append(results, driven.ToolResult{
				ToolUseID: use.ID,
				Content:   fmt.Sprintf("unknown tool: %s", use.Name),
			})
			continue
		}

		query, _ := use.Input["query"].(string)
		maxResults := DefaultWebResults
		if n, ok := use.Input["max_results"].(float64); ok {
			maxResults = int(n)
		}

		logger.Info("Answer: web_search(%q, %d)", query, maxResults)
		s.emit(ctx, events, domain.StreamEvent{ToolUsed: WebSearchTool.Name})

		content := NoResultsMarker
		if s.webSearch != nil {
			content = s.webSearch.FormatForContext(s.webSearch.Search(ctx, query, maxResults))
		}

		results = append(results, driven.ToolResult{ToolUseID: use.ID, Content: content})
	}

	return results
}

// complete performs one blocking model call with the single bounded
// retry allowed for transient network errors.
func (s *AssistantService) complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	resp, err := s.llm.Complete(ctx, req)
	if err != nil && isTransient(err) {
		logger.Warn("Answer: transient completion error, retrying once: %v", err)
		time.Sleep(transientRetryDelay)
		resp, err = s.llm.Complete(ctx, req)
	}
	return resp, err
}

// emit sends an event unless the caller has gone away. Returns false
// when the context is cancelled; the in-flight upstream call is left
// to its own context handling.
func (s *AssistantService) emit(ctx context.Context, events chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// isTransient reports whether an error is a temporary network failure
// worth a single retry. Auth and rate-limit errors are not retried.
func isTransient(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
