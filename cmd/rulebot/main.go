// Command rulebot answers questions about the VEX Push Back rule manual.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/rulebot/internal/adapters/driven/ai"
	"github.com/custodia-labs/rulebot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rulebot/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/rulebot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rulebot/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/rulebot/internal/adapters/driving/cli"
	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/core/services"
	"github.com/custodia-labs/rulebot/internal/logger"
	"github.com/custodia-labs/rulebot/internal/normalisers/pdf"
	"github.com/custodia-labs/rulebot/internal/postprocessors"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env file is normal; keys may come from the shell or config.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetFactory(buildServices)

	if err := cli.Execute(); err != nil {
		if errors.Is(err, pdf.ErrPDFToolNotFound) {
			fmt.Fprintln(os.Stderr, pdf.InstallInstructions())
		}
		os.Exit(1)
	}
}

// buildServices wires the adapters into the core services.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("locating config dir: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if opts.DataDir != "" {
		settings.Data.Dir = opts.DataDir
	}
	ai.ApplyEnvKeys(settings, os.Getenv)

	aiServices := ai.Init(settings, false)
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	promptStore, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		aiServices.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	chunkStore := jsonfile.NewChunkStore(settings.Data.ChunksPath())
	indexStore := sqlite.NewIndexStore(settings.Data.IndexPath())
	corpus := services.NewCorpusLoader(indexStore, flat.NewIndex)

	retriever := services.NewRetrieverService(corpus, aiServices.EmbeddingService)
	retriever.SetChunkStore(chunkStore)
	retriever.SetCandidates(settings.Retrieval.Candidates)

	answerer := services.NewAnswerService(corpus, retriever, aiServices.LLMService)
	answerer.SetPromptStore(promptStore)
	answerer.SetBackoff(services.LinearBackoff{
		Attempts: settings.Answer.MaxAttempts,
		Step:     settings.Answer.BackoffStep,
	})
	answerer.SetGenerateOptions(driven.GenerateOptions{
		MaxTokens:   settings.Generation.MaxTokens,
		Temperature: settings.Generation.Temperature,
	})
	answerer.SetStateHook(func(state domain.AnswerState) {
		logger.Debug("answer state: %s", state)
	})

	builder := services.NewIndexBuilder(chunkStore, indexStore, aiServices.EmbeddingService)
	builder.SetRateLimit(settings.Index.EmbedRate)

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	segmenter, err := registry.Build(postprocessors.DefaultSegmenter, settingsService.SegmenterConfig())
	if err != nil {
		aiServices.Close()
		return nil, fmt.Errorf("building segmenter: %w", err)
	}
	ingest := services.NewIngestService(pdf.New(), segmenter, chunkStore, settings.Data.ManualPath())

	return &cli.Services{
		Settings:   settingsService,
		Retriever:  retriever,
		Answerer:   answerer,
		Ingest:     ingest,
		Index:      builder,
		Rules:      services.NewRuleBookService(corpus),
		ChunksPath: settings.Data.ChunksPath(),
		Close:      aiServices.Close,
	}, nil
}
