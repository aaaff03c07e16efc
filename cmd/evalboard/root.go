package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taskeval/evalboard/internal/blobstore"
	"github.com/taskeval/evalboard/internal/extract"
	"github.com/taskeval/evalboard/internal/extract/tesseract"
	"github.com/taskeval/evalboard/internal/llm"
	"github.com/taskeval/evalboard/internal/projectconfig"
	"github.com/taskeval/evalboard/internal/store"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evalboard",
		Short: "Evalboard - human-in-the-loop evaluation of model answers",
		Long: `Evalboard is a command-line tool for evaluating model answers to tasks.

It fetches tasks from the relational store, extracts text from the task
files in blob storage, sends the composed prompt to the model, and records
your judgment of each answer.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newExtractCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newUploadCommand())
	cmd.AddCommand(newCheckCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadConfig reads project configuration from the working directory.
func loadConfig() (*projectconfig.Config, error) {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *projectconfig.Config) (*store.Postgres, error) {
	st, err := store.Open(cfg.Store.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to the task store: %w", err)
	}
	return st, nil
}

func newBlobClient(cfg *projectconfig.Config) (blobstore.Client, error) {
	client, err := blobstore.NewAzure(cfg.Blob.ServiceURL, cfg.Blob.Container)
	if err != nil {
		return nil, fmt.Errorf("connecting to blob storage: %w", err)
	}
	return client, nil
}

func newModelClient(cfg *projectconfig.Config, engineOverride string) (llm.Client, error) {
	engine := cfg.Model.Engine
	if engineOverride != "" {
		engine = engineOverride
	}
	client, err := llm.NewClient(llm.Options{
		Engine:      engine,
		Model:       cfg.Model.Model,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}
	return client, nil
}

// newExtractor builds the shared extractor with OCR support.
func newExtractor() *extract.Extractor {
	return extract.New(tesseract.New())
}
