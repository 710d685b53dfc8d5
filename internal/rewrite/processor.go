package rewrite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/rewriter/internal/domain"
)

// Processor turns one record into an all-or-nothing Outcome. It never writes.
type Processor struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewProcessor creates a Processor around pipeline.
func NewProcessor(pipeline *Pipeline, logger *slog.Logger) (*Processor, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("%w: pipeline cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		pipeline: pipeline,
		logger:   logger.With("component", "processor"),
	}, nil
}

// Process runs every stage for rec. The outcome is a Success carrying all
// three texts, or a Failure naming the first stage that failed.
func (p *Processor) Process(ctx context.Context, rec domain.Record) domain.Outcome {
	if err := rec.Validate(); err != nil {
		return domain.Failure(rec.ID, domain.StageTitle, err)
	}

	exec := p.pipeline.Run(ctx, rec)
	if exec.State != StateSummaryDone {
		p.logger.WarnContext(ctx, "record processing failed",
			"record_id", rec.ID,
			"stage", exec.FailedStage,
			"error", exec.Err)
		return domain.Failure(rec.ID, exec.FailedStage, exec.Err)
	}

	out := domain.Success(rec.ID, exec.Title, exec.Description, exec.Summary)
	if err := out.Validate(); err != nil {
		p.logger.ErrorContext(ctx, "pipeline finished with incomplete outcome",
			"record_id", rec.ID,
			"error", err)
		return domain.Failure(rec.ID, domain.StageSummary, err)
	}

	p.logger.DebugContext(ctx, "record processed",
		"record_id", rec.ID,
		"title_length", len([]rune(out.Title)),
		"description_length", len([]rune(out.Description)))
	return out
}
