// Package cli implements the studyhall command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	chromemengine "github.com/studyhall-labs/studyhall-cli/internal/adapters/driven/similarity/chromem"
	"github.com/studyhall-labs/studyhall-cli/internal/chunker"
	"github.com/studyhall-labs/studyhall-cli/internal/config"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driving"
	"github.com/studyhall-labs/studyhall-cli/internal/core/services"
	"github.com/studyhall-labs/studyhall-cli/internal/core/tools"
	"github.com/studyhall-labs/studyhall-cli/internal/logger"
	"github.com/studyhall-labs/studyhall-cli/internal/transcript"

	"github.com/studyhall-labs/studyhall-cli/internal/adapters/driven/completion/anthropic"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	cfgFile string
	verbose bool
)

// Package-level services, wired lazily by commands (or injected by
// tests).
var (
	cfg           *config.Config
	courseStore   *services.CourseStore
	sessionStore  *services.SessionStore
	ingestService driving.IngestService
	queryService  driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "studyhall",
	Short: "Ask questions about your course transcripts",
	Long: `Studyhall ingests course transcripts into a local vector database
and answers questions about them with citations, using retrieval-augmented
generation.

Start by ingesting a transcript folder, then ask away:

  studyhall ingest ./docs
  studyhall ask "What is covered in lesson 2 of the MCP course?"
  studyhall chat`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.studyhall/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration once per invocation.
func loadConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = loaded
	return cfg, nil
}

// initStore wires the similarity engine and the course store.
func initStore() error {
	if courseStore != nil {
		return nil
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Embedding.APIKey == "" {
		return errors.New("no embedding API key configured; set OPENAI_API_KEY or run 'studyhall config set-key'")
	}

	dataDir, err := c.ResolveDataDir()
	if err != nil {
		return err
	}

	embedFn := chromemengine.RateLimited(
		chromemengine.NewOpenAIEmbedding(c.Embedding.APIKey, c.Embedding.Model, c.Embedding.BaseURL),
		c.Embedding.RequestsPerSecond,
	)
	engine, err := chromemengine.New(dataDir, embedFn)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}

	courseStore = services.NewCourseStore(engine,
		services.WithMaxResults(c.MaxResults),
		services.WithMatchThreshold(float32(c.CourseMatchThreshold)),
	)
	logger.Debug("Vector store ready at %s", dataDir)
	return nil
}

// initIngest wires the ingest service.
func initIngest() error {
	if ingestService != nil {
		return nil
	}
	if err := initStore(); err != nil {
		return err
	}

	parser := transcript.NewParser(chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	))
	ingestService = services.NewIngestService(parser, courseStore)
	return nil
}

// initQuery wires the completion service, tools, sessions, and the
// query orchestrator.
func initQuery() error {
	if queryService != nil {
		return nil
	}
	if err := initStore(); err != nil {
		return err
	}

	c := cfg
	if c.Completion.APIKey == "" {
		return errors.New("no completion API key configured; set ANTHROPIC_API_KEY or run 'studyhall config set-key'")
	}

	completion, err := anthropic.NewCompletionService(anthropic.Config{
		APIKey:  c.Completion.APIKey,
		BaseURL: c.Completion.BaseURL,
		Model:   c.Completion.Model,
	})
	if err != nil {
		return err
	}

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewCourseSearchTool(courseStore)); err != nil {
		return err
	}
	if err := registry.Register(tools.NewCourseOutlineTool(courseStore)); err != nil {
		return err
	}

	sessionStore = services.NewSessionStore(c.MaxHistory)
	queryService = services.NewQueryService(completion, registry, sessionStore, courseStore)
	logger.Debug("Query service ready (model %s)", completion.ModelName())
	return nil
}
