package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vera-labs/vera-cli/internal/chunker"
)

var (
	ingestCollection string
	ingestChunkSize  int
	ingestOverlap    int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Add documents to the knowledge base",
	Long: `Splits text files into overlapping chunks and stores them in the
knowledge base. Chunks are embedded on ingest when an embedding
provider is configured; otherwise search falls back to keyword
matching.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "knowledge", "target collection")
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", chunker.DefaultChunkSize, "chunk size in characters")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap", chunker.DefaultChunkOverlap, "overlap between chunks in characters")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	splitter := chunker.New(
		chunker.WithChunkSize(ingestChunkSize),
		chunker.WithOverlap(ingestOverlap),
	)

	total := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		chunks := splitter.Split(string(data), filepath.Base(path), fileTypeOf(path))
		if len(chunks) == 0 {
			cmd.Printf("  %s: empty, skipped\n", path)
			continue
		}

		if err := chunkStore.AddChunks(cmd.Context(), ingestCollection, chunks); err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("  %s: %d chunks\n", path, len(chunks))
		total += len(chunks)
	}

	cmd.Printf("Ingested %d chunks into collection %q.\n", total, ingestCollection)
	return nil
}

// fileTypeOf maps a file extension to a coarse content type label.
func fileTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	default:
		return "text"
	}
}
