// Package chunker provides fixed-size text chunking for knowledge base ingestion.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// chunkNamespace seeds deterministic chunk IDs. IDs derive from the
// source file and chunk position so re-ingesting a file upserts its
// chunks instead of duplicating them.
var chunkNamespace = uuid.MustParse("9f2c1710-3d55-4f3a-9b6e-5a1d28c40b17")

// Chunker splits source text into fixed-size overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split chunks the content of a single source file. Empty content
// produces no chunks.
func (c *Chunker) Split(content, sourceFile, fileType string) []domain.Chunk {
	if content == "" {
		return nil
	}

	contentLen := len(content)

	estimatedChunks := (contentLen / (c.chunkSize - c.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	position := 0
	start := 0

	for start < contentLen {
		end := start + c.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(sourceFile, position),
			Content:    content[start:end],
			SourceFile: sourceFile,
			FileType:   fileType,
			Position:   position,
		})
		position++

		// Move start forward by (chunkSize - overlap)
		start += c.chunkSize - c.overlap

		// Avoid infinite loop for edge cases
		if c.chunkSize <= c.overlap {
			break
		}
	}

	return chunks
}

// chunkID returns the stable identifier for a chunk of sourceFile at
// the given position.
func chunkID(sourceFile string, position int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s/%d", sourceFile, position))).String()
}
