package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

var (
	searchJSON     bool
	searchPlanOnly bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Runs the retrieval pipeline against the knowledge base and prints
the ranked results. Broad queries fan out into domain sub-queries;
specific queries run a single pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchPlanOnly, "plan", false, "print the retrieval plan without executing it")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	plan, err := retrievalService.Plan(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchPlanOnly {
		return outputPlan(cmd, plan)
	}

	results, err := retrievalService.Retrieve(cmd.Context(), plan)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputPlan(cmd *cobra.Command, plan domain.RetrievalPlan) error {
	cmd.Printf("Mode: %s (budget %d)\n", plan.Mode, plan.Budget)
	cmd.Println()
	for _, sq := range plan.SubQueries {
		cmd.Printf("  [%s] %s (limit %d)\n", sq.Label, sq.Text, sq.Limit)
	}
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, results[i].Chunk.SourceFile, results[i].Score)
		if results[i].SubQueryLabel != "" {
			cmd.Printf("      Domain: %s\n", results[i].SubQueryLabel)
		}
		cmd.Printf("      %s\n", truncate(results[i].Chunk.Content, 160))
		cmd.Println()
	}

	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
