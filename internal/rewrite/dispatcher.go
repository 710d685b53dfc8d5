package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/store"
)

// Runner executes one batch run.
type Runner interface {
	Run(ctx context.Context, opts RunOptions) (*Report, error)
}

// Dispatcher starts runs in the background under a shared base context.
// At most one run is active at a time, so no record is ever handled by two
// runs at once.
type Dispatcher struct {
	runner Runner
	runs   store.RunStore
	ctx    context.Context
	logger *slog.Logger

	mu     sync.Mutex
	active *domain.Run
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Cancelling ctx cancels every run it
// started. runs may be nil, in which case no history row is created.
func NewDispatcher(ctx context.Context, runner Runner, runs store.RunStore, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		runner: runner,
		runs:   runs,
		ctx:    ctx,
		logger: logger.With("component", "dispatcher"),
	}
}

// Launch creates the history row for a new run and starts it in the
// background. It returns ErrRunInProgress without touching the store when
// a run is already active.
func (d *Dispatcher) Launch(ctx context.Context, opts RunOptions) (*domain.Run, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, d.active.ID)
	}

	run := domain.NewRun()
	if opts.RunID != uuid.Nil {
		run.ID = opts.RunID
	}
	if d.runs != nil {
		if err := d.runs.Create(ctx, run); err != nil {
			return nil, err
		}
	}
	opts.RunID = run.ID

	d.active = run
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.release()
		if _, err := d.runner.Run(d.ctx, opts); err != nil {
			d.logger.Error("background run failed", "run_id", opts.RunID, "error", err)
		}
	}()

	return run, nil
}

// Active returns a copy of the run in progress, if any.
func (d *Dispatcher) Active() (*domain.Run, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return nil, false
	}
	run := *d.active
	return &run, true
}

func (d *Dispatcher) release() {
	d.mu.Lock()
	d.active = nil
	d.mu.Unlock()
}

// Wait blocks until every launched run has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
