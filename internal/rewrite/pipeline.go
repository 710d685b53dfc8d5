package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/generation"
	"github.com/phrazzld/rewriter/internal/prompt"
	"github.com/phrazzld/rewriter/internal/textutil"
)

// Default length limits, in characters.
const (
	DefaultMaxTitleLength       = 80
	DefaultMaxDescriptionLength = 230
)

// Limits bounds the generated title and description.
type Limits struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

// DefaultLimits returns the standard title and description limits.
func DefaultLimits() Limits {
	return Limits{
		MaxTitleLength:       DefaultMaxTitleLength,
		MaxDescriptionLength: DefaultMaxDescriptionLength,
	}
}

// Execution is the progress of one record through the stages.
type Execution struct {
	RecordID int64
	State    State

	Title       string
	Description string
	Summary     string

	// FailedStage and Err are set when State is StateFailed.
	FailedStage domain.Stage
	Err         error
}

func (e *Execution) advance(to State) error {
	next, err := e.State.Transition(to)
	if err != nil {
		return err
	}
	e.State = next
	return nil
}

func (e *Execution) fail(stage domain.Stage, err error) {
	if e.advance(StateFailed) != nil {
		return
	}
	e.FailedStage = stage
	e.Err = err
	e.Title, e.Description, e.Summary = "", "", ""
}

// Pipeline runs the three dependent generation stages for a record.
// It holds no per-record state and is safe for concurrent use.
type Pipeline struct {
	generator generation.Generator
	prompts   *prompt.Set
	limits    Limits
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline. Non-positive limits are replaced by the defaults.
func NewPipeline(
	generator generation.Generator,
	prompts *prompt.Set,
	limits Limits,
	logger *slog.Logger,
) (*Pipeline, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", ErrInvalidConfig)
	}
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt set cannot be nil", ErrInvalidConfig)
	}
	if limits.MaxTitleLength <= 0 {
		limits.MaxTitleLength = DefaultMaxTitleLength
	}
	if limits.MaxDescriptionLength <= 0 {
		limits.MaxDescriptionLength = DefaultMaxDescriptionLength
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		generator: generator,
		prompts:   prompts,
		limits:    limits,
		logger:    logger.With("component", "pipeline"),
	}, nil
}

// Limits returns the limits in effect.
func (p *Pipeline) Limits() Limits {
	return p.limits
}

// Run drives rec from Pending to SummaryDone, or to Failed at the first stage
// that errors. Stages after a failed one are never invoked.
func (p *Pipeline) Run(ctx context.Context, rec domain.Record) *Execution {
	exec := &Execution{RecordID: rec.ID, State: StatePending}

	for !exec.State.Terminal() {
		stage, _ := exec.State.NextStage()

		var text string
		var err error
		switch stage {
		case domain.StageTitle:
			text, err = p.GenerateTitle(ctx, rec.Title)
		case domain.StageDescription:
			text, err = p.GenerateDescription(ctx, exec.Title)
		case domain.StageSummary:
			text, err = p.GenerateSummary(ctx, exec.Title, exec.Description)
		}

		if err != nil {
			p.logger.DebugContext(ctx, "stage failed",
				"record_id", rec.ID,
				"stage", stage,
				"error", err)
			exec.fail(stage, err)
			break
		}

		switch stage {
		case domain.StageTitle:
			exec.Title = text
		case domain.StageDescription:
			exec.Description = text
		case domain.StageSummary:
			exec.Summary = text
		}

		if err := exec.advance(exec.State + 1); err != nil {
			exec.fail(stage, err)
			break
		}
	}

	return exec
}

// GenerateTitle asks for a new title based on the original one and bounds it
// to MaxTitleLength.
func (p *Pipeline) GenerateTitle(ctx context.Context, originalTitle string) (string, error) {
	return p.generate(ctx, prompt.KindTitle, prompt.Data{
		Title:     originalTitle,
		MaxLength: p.limits.MaxTitleLength,
	}, p.limits.MaxTitleLength)
}

// GenerateDescription asks for a description consistent with the new title
// and bounds it to MaxDescriptionLength. The original description is not used.
func (p *Pipeline) GenerateDescription(ctx context.Context, newTitle string) (string, error) {
	return p.generate(ctx, prompt.KindDescription, prompt.Data{
		Title:     newTitle,
		MaxLength: p.limits.MaxDescriptionLength,
	}, p.limits.MaxDescriptionLength)
}

// GenerateSummary asks for a short summary of the new title and description.
// The summary has no length limit.
func (p *Pipeline) GenerateSummary(ctx context.Context, newTitle, newDescription string) (string, error) {
	return p.generate(ctx, prompt.KindSummary, prompt.Data{
		Title:       newTitle,
		Description: newDescription,
	}, 0)
}

// generate renders the prompt, calls the generator once and applies maxLength
// when it is positive.
func (p *Pipeline) generate(ctx context.Context, kind prompt.Kind, data prompt.Data, maxLength int) (string, error) {
	text, err := p.prompts.Render(kind, data)
	if err != nil {
		return "", err
	}

	out, err := p.generator.Generate(ctx, text)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if maxLength > 0 {
		out = textutil.Truncate(out, maxLength)
	}
	if out == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyStageOutput, kind)
	}

	return out, nil
}
