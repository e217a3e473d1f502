package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var webSearchLimit int

var webSearchCmd = &cobra.Command{
	Use:   "websearch [query]",
	Short: "Search the web",
	Long: `Searches the web through the configured provider chain.
Providers are tried in priority order; the first one returning
results wins. Results are cached for an hour.`,
	Args: cobra.ExactArgs(1),
	RunE: runWebSearch,
}

func init() {
	webSearchCmd.Flags().IntVarP(&webSearchLimit, "limit", "n", 5, "maximum number of results")
	rootCmd.AddCommand(webSearchCmd)
}

func runWebSearch(cmd *cobra.Command, args []string) error {
	if webSearchService == nil {
		return errors.New("web search service not configured")
	}

	results := webSearchService.Search(cmd.Context(), args[0], webSearchLimit)
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		if r.Answer != "" {
			cmd.Printf("Answer: %s\n\n", r.Answer)
		}
		cmd.Printf("  [%d] %s\n", i+1, r.Title)
		cmd.Printf("      %s\n", r.URL)
		if r.Snippet != "" {
			cmd.Printf("      %s\n", truncate(r.Snippet, 200))
		}
		cmd.Println()
	}

	return nil
}
