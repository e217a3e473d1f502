// Package cli implements the vera command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vera-labs/vera-cli/internal/adapters/driven/ai"
	configfile "github.com/vera-labs/vera-cli/internal/adapters/driven/config/file"
	"github.com/vera-labs/vera-cli/internal/adapters/driven/storage/sqlite"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/core/ports/driving"
	"github.com/vera-labs/vera-cli/internal/core/services"
	"github.com/vera-labs/vera-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices. Commands check for nil before use so
// a partially configured installation still supports settings commands.
var (
	settingsService  driving.SettingsService
	assistantService driving.AssistantService
	retrievalService driving.RetrievalService
	webSearchService driving.WebSearchService
	chunkStore       driven.ChunkStore

	aiResources *ai.InitResult
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vera",
	Short: "Knowledge-grounded assistant for strategic transformation work",
	Long: `Vera answers questions from an indexed knowledge base, falling back
to web search when the local context is not enough.

Ask one-shot questions with 'vera ask', hold a conversation with
'vera chat', or inspect retrieval directly with 'vera search'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute wires the service graph and runs the root command.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	defer shutdown()

	return rootCmd.Execute()
}

// initServices builds the full service graph from configuration.
// Missing AI providers degrade the graph rather than failing startup:
// the settings commands must work on a fresh installation.
func initServices() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("init prompt store: %w", err)
	}

	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	aiResources = &ai.InitResult{}

	embedSvc, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("%v", err)
	}
	aiResources.EmbeddingService = embedSvc

	store, err := sqlite.NewStore("", embedSvc)
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}
	chunkStore = store

	llm, err := ai.CreateAndValidateLLMClient(&settings.LLM)
	if err != nil {
		logger.Warn("%v", err)
	}
	aiResources.LLMClient = llm

	providers, warnings := ai.CreateSearchProviders(settings.WebSearch)
	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	aiResources.SearchProviders = providers

	webSearch := services.NewWebSearchService(providers)
	webSearchService = webSearch

	planner := services.NewRetrievalPlanner(configStore)
	retrieval := services.NewRetrievalService(planner, chunkStore, settings.Retrieval.Collection)
	retrievalService = retrieval

	assistantService = services.NewAssistantService(retrieval, webSearch, llm, promptStore)

	return nil
}

// shutdown releases resources held by the service graph.
func shutdown() {
	if chunkStore != nil {
		if err := chunkStore.Close(); err != nil {
			logger.Warn("Closing chunk store: %v", err)
		}
	}
	if aiResources != nil {
		aiResources.Close()
	}
}
