package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the
// binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return an
	// error; consumers fall back to compiled-in defaults.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSystem is the assistant's base system prompt.
	// This prompt has no format placeholders.
	PromptSystem = "system"
)
