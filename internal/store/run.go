package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/rewriter/internal/domain"
)

// RunStore persists the history of rewrite runs.
type RunStore interface {
	// Create inserts a new run row.
	Create(ctx context.Context, run *domain.Run) error

	// Update writes the status, counters and finish time of an existing run.
	// Returns ErrRunNotFound if the run does not exist.
	Update(ctx context.Context, run *domain.Run) error

	// GetByID retrieves a run.
	// Returns ErrRunNotFound if the run does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
}
