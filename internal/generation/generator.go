package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Generator turns a prompt into generated text.
// This interface is the only seam the rewrite pipeline depends on.
type Generator interface {
	// Generate returns trimmed, non-empty text, or an error wrapping
	// ErrGenerationFailed.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Backend is a raw connection to a text-generation service. Implementations
// may fail in any way they like; the Adapter normalizes the result.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend and model in logs, e.g. "ollama:phi3".
	Name() string
}

// Adapter implements Generator on top of a Backend.
type Adapter struct {
	backend Backend
	timeout time.Duration
	logger  *slog.Logger
}

var _ Generator = (*Adapter)(nil)

// NewAdapter wraps backend. A positive timeout bounds every call.
func NewAdapter(backend Backend, timeout time.Duration, logger *slog.Logger) (*Adapter, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		backend: backend,
		timeout: timeout,
		logger:  logger.With("component", "generation", "backend", backend.Name()),
	}, nil
}

// Generate calls the backend once and maps every failure to ErrGenerationFailed.
func (a *Adapter) Generate(ctx context.Context, prompt string) (text string, err error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, ErrEmptyPrompt)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			a.logger.ErrorContext(ctx, "generation backend panicked", "panic", p)
			text = ""
			err = fmt.Errorf("%w: backend panic: %v", ErrGenerationFailed, p)
		}
	}()

	start := time.Now()
	raw, callErr := a.backend.Complete(ctx, prompt)
	elapsed := time.Since(start)

	if callErr != nil {
		a.logger.WarnContext(ctx, "generation call failed",
			"error", callErr,
			"duration_ms", elapsed.Milliseconds())
		if errors.Is(callErr, ErrGenerationFailed) {
			return "", callErr
		}
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, callErr)
	}

	text = strings.TrimSpace(raw)
	if text == "" {
		a.logger.WarnContext(ctx, "generation returned empty text",
			"duration_ms", elapsed.Milliseconds())
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, ErrEmptyResponse)
	}

	a.logger.DebugContext(ctx, "generation call succeeded",
		"prompt_length", len(prompt),
		"response_length", len(text),
		"duration_ms", elapsed.Milliseconds())

	return text, nil
}
