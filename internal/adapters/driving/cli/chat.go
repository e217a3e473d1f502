package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

var chatWeb bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a conversational session against the knowledge base.
History accumulates across turns until /reset or exit.

Commands inside the session:
  /reset   clear the conversation history
  /web     toggle web search for subsequent turns
  /quit    end the session`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatWeb, "web", false, "allow web search during answers")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	cmd.Println("Vera chat. /quit to exit, /reset to clear history, /web to toggle web search.")
	cmd.Println()

	webSearch := chatWeb
	var history []domain.ChatMessage

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			return nil
		case "/reset":
			history = nil
			cmd.Println("History cleared.")
			continue
		case "/web":
			webSearch = !webSearch
			if webSearch {
				cmd.Println("Web search enabled.")
			} else {
				cmd.Println("Web search disabled.")
			}
			continue
		}

		reply, err := chatTurn(cmd, line, history, webSearch)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		history = append(history,
			domain.ChatMessage{Role: domain.RoleUser, Content: line},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: reply},
		)
	}

	return scanner.Err()
}

// chatTurn runs one question through the assistant and returns the
// full reply text for the history.
func chatTurn(cmd *cobra.Command, query string, history []domain.ChatMessage, webSearch bool) (string, error) {
	events, err := assistantService.Answer(cmd.Context(), query, history, webSearch)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for ev := range events {
		if ev.Err != nil {
			cmd.Println()
			return "", ev.Err
		}
		if ev.ToolUsed != "" {
			cmd.PrintErrf("[%s]\n", ev.ToolUsed)
			continue
		}
		cmd.Print(ev.Text)
		reply.WriteString(ev.Text)
	}
	cmd.Println()
	cmd.Println()

	return reply.String(), nil
}
