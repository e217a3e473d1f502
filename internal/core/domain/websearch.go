package domain

// WebSearchResult is the normalised record produced by any web search
// provider. Every provider's heterogeneous payload is mapped into this
// shape before leaving the web search service.
type WebSearchResult struct {
	// Title is the result's page title.
	Title string

	// URL is the result's location.
	URL string

	// Snippet is the extracted content fragment.
	Snippet string

	// Answer is an AI-synthesised answer, when the provider supplies
	// one. Empty for plain search providers.
	Answer string

	// Citations lists source URLs backing a synthesised answer.
	Citations []string
}
