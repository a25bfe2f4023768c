// Package cli implements the attackrag command line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ollamaembed "github.com/halcyon-sec/attackrag/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/halcyon-sec/attackrag/internal/adapters/driven/llm/ollama"
	"github.com/halcyon-sec/attackrag/internal/adapters/driven/storage/sqlite"
	"github.com/halcyon-sec/attackrag/internal/adapters/driven/vectorstore/chroma"
	"github.com/halcyon-sec/attackrag/internal/attack"
	"github.com/halcyon-sec/attackrag/internal/config"
	"github.com/halcyon-sec/attackrag/internal/core/domain"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driven"
	"github.com/halcyon-sec/attackrag/internal/core/ports/driving"
	"github.com/halcyon-sec/attackrag/internal/core/services"
	"github.com/halcyon-sec/attackrag/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Persistent flag values.
var (
	configPath string
	verbose    bool
)

// Wired configuration and services. initServices builds them from the
// config file on first use; tests inject substitutes instead.
var (
	appConfig        *config.Config
	vectorStore      driven.VectorStore
	embedder         driven.EmbeddingService
	chatModel        driven.LLMService
	runLedger        driven.RunLedger
	ingestService    driving.IngestOrchestrator
	retrievalService driving.RetrievalService
	auditService     driving.Auditor
	newSession       func() driving.AssistantSession

	servicesWired bool
)

var rootCmd = &cobra.Command{
	Use:   "attackrag",
	Short: "Retrieval-augmented assistant for the MITRE ATT&CK corpus",
	Long: `attackrag indexes the MITRE ATT&CK knowledge base into a Chroma vector
store and answers questions about it through a local Ollama model.

Typical workflow:
  attackrag ingest        # embed and index the ATT&CK corpus
  attackrag audit         # cross-check indexed counts against the corpus
  attackrag chat          # interactive assistant over the indexed corpus
  attackrag query "..."   # one-shot retrieval without the LLM`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Commands that never touch services skip wiring entirely.
		switch cmd.Name() {
		case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if runLedger != nil {
			runLedger.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default ~/.attackrag/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose output")
}

// Execute runs the root command with the given context. The context is
// cancelled on interrupt, which aborts in-flight pipeline work.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initServices builds the adapter and service graph from configuration.
// Already-wired services (injected by tests) are left untouched.
func initServices() error {
	if servicesWired {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	vectorStore = chroma.NewVectorStore(chroma.Config{
		BaseURL: cfg.Chroma.BaseURL,
	})
	embedder = ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbeddingModel,
	})
	chatModel = ollamallm.NewLLMService(ollamallm.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.ChatModel,
	})

	// The ledger is best-effort: a broken local database never blocks a
	// run, it only loses run history.
	ledger, err := sqlite.NewStore(cfg.Ledger.Path)
	if err != nil {
		logger.Warn("Ingest ledger unavailable: %v", err)
	} else {
		runLedger = ledger
	}

	kb := attack.NewBundle(cfg.KnowledgeBase.Path)

	ingestService = services.NewIngestService(kb, embedder, vectorStore, runLedger,
		cfg.Chroma.Collection, cfg.Ingest.BatchSize, cfg.Ingest.Workers)
	retrievalService = services.NewRetrievalService(embedder, vectorStore,
		cfg.Chroma.Collection)
	auditService = services.NewAuditService(kb, vectorStore, runLedger,
		cfg.Chroma.Collection)
	newSession = func() driving.AssistantSession {
		return services.NewChatSession(retrievalService, chatModel, cfg.Retrieval.TopK)
	}

	servicesWired = true
	return nil
}

// checkVectorStore validates vector store connectivity before a run commits.
func checkVectorStore(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := vectorStore.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Check chroma.base_url (%s)",
			domain.ErrStoreUnavailable, err, appConfig.Chroma.BaseURL)
	}
	return nil
}

// checkEmbedder validates embedding service connectivity.
func checkEmbedder(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Check ollama.base_url (%s)",
			domain.ErrEmbeddingUnavailable, err, appConfig.Ollama.BaseURL)
	}
	return nil
}

// checkChatModel validates chat model connectivity.
func checkChatModel(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()

	if err := chatModel.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Check ollama.base_url (%s)",
			domain.ErrLLMUnavailable, err, appConfig.Ollama.BaseURL)
	}
	return nil
}
