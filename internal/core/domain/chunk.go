// Package domain contains the core business types for Vera.
// These types have no dependencies on adapters or external services.
package domain

// Chunk represents a searchable unit of indexed text.
// Chunks are produced by the document ingestion pipeline and are
// read-only to the retrieval core.
type Chunk struct {
	// ID is the unique identifier, derived from the source document
	// ID and the chunk's sequential index.
	ID string

	// Content is the raw text content of this chunk.
	Content string

	// SourceFile is the filename of the originating document.
	SourceFile string

	// FileType is the originating document's type (pdf, docx, txt, md, csv).
	FileType string

	// Position is the ordinal position within the source document.
	Position int

	// Embedding is the vector representation for semantic search.
	// Dimensionality is constant for a given store instance.
	Embedding []float32
}

// SearchResult is an ephemeral record produced by a single query
// against the chunk store. It is consumed by the retriever and
// discarded after context assembly.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the similarity score; higher means more relevant.
	Score float64

	// SubQueryLabel identifies the sub-query that produced this
	// result. Empty for single-pass retrieval.
	SubQueryLabel string
}
