package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askWeb bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question",
	Long: `Answers a single question from the knowledge base.
The answer streams to stdout as it is generated.

With --web the assistant may search the web mid-answer when the
knowledge base does not cover the question.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askWeb, "web", false, "allow web search during the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	events, err := assistantService.Answer(cmd.Context(), args[0], nil, askWeb)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	for ev := range events {
		if ev.Err != nil {
			cmd.Println()
			return fmt.Errorf("ask failed: %w", ev.Err)
		}
		if ev.ToolUsed != "" {
			cmd.PrintErrf("[%s]\n", ev.ToolUsed)
			continue
		}
		cmd.Print(ev.Text)
	}
	cmd.Println()

	return nil
}
