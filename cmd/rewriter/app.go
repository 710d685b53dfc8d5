package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/rewriter/internal/config"
	"github.com/phrazzld/rewriter/internal/events"
	"github.com/phrazzld/rewriter/internal/generation"
	"github.com/phrazzld/rewriter/internal/metrics"
	"github.com/phrazzld/rewriter/internal/notice"
	"github.com/phrazzld/rewriter/internal/platform/gemini"
	"github.com/phrazzld/rewriter/internal/platform/ollama"
	"github.com/phrazzld/rewriter/internal/platform/postgres"
	"github.com/phrazzld/rewriter/internal/prompt"
	"github.com/phrazzld/rewriter/internal/rewrite"
	"github.com/phrazzld/rewriter/internal/store"
)

// application holds the wired components of one process.
type application struct {
	orchestrator *rewrite.Orchestrator
	runs         store.RunStore
	metrics      *metrics.Recorder
}

// newBackend selects the generation backend from configuration.
func newBackend(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Backend, error) {
	switch cfg.Provider {
	case "gemini":
		backend, err := gemini.NewBackend(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.Model}, logger)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "ollama", "":
		return ollama.NewBackend(ollama.Config{Endpoint: cfg.OllamaURL, Model: cfg.Model}, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// newApplication wires generation, the rewrite core, persistence and event
// handlers. Notices are written to out.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	out io.Writer,
	logger *slog.Logger,
) (*application, error) {
	backend, err := newBackend(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation backend: %w", err)
	}
	generator, err := generation.NewAdapter(backend, cfg.LLM.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	prompts, err := prompt.Load(cfg.Rewrite.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	pipeline, err := rewrite.NewPipeline(generator, prompts, rewrite.Limits{
		MaxTitleLength:       cfg.Rewrite.MaxTitleLength,
		MaxDescriptionLength: cfg.Rewrite.MaxDescriptionLength,
	}, logger)
	if err != nil {
		return nil, err
	}
	processor, err := rewrite.NewProcessor(pipeline, logger)
	if err != nil {
		return nil, err
	}

	records := postgres.NewPostgresRecordStore(db, logger)
	summaries := postgres.NewPostgresSummaryStore(db, logger)
	runs := postgres.NewPostgresRunStore(db, logger)

	gateway, err := rewrite.NewStoreGateway(db, records, summaries, logger)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(notice.NewWriter(out))
	emitter.RegisterHandler(recorder)

	orch, err := rewrite.NewOrchestrator(records, processor, gateway, emitter, rewrite.Config{
		WorkerCount: cfg.Rewrite.WorkerCount,
		Runs:        runs,
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("application wired",
		"backend", backend.Name(),
		"workers", cfg.Rewrite.WorkerCount,
		"max_title_length", cfg.Rewrite.MaxTitleLength,
		"max_description_length", cfg.Rewrite.MaxDescriptionLength)

	return &application{
		orchestrator: orch,
		runs:         runs,
		metrics:      recorder,
	}, nil
}
