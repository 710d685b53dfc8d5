package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrTaskPanicked is reported in a Completion when Execute panicked.
var ErrTaskPanicked = errors.New("task panicked")

// DefaultWorkerCount is the pool size used when none is configured.
const DefaultWorkerCount = 5

// Completion reports the end of one task.
type Completion struct {
	// Task is the task that finished
	Task Task

	// Err is the error returned by Execute, a recovered panic, or the
	// context error when the task was cancelled before it started
	Err error

	// Status is completed, failed or cancelled
	Status TaskStatus

	// WorkerID identifies the worker that handled the task
	WorkerID int

	// Duration is the time spent in Execute
	Duration time.Duration
}

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// mu guards cancel
	mu sync.Mutex

	// cancel stops the workers of the current run
	cancel context.CancelFunc

	// logger for structured logging
	logger *slog.Logger
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, DefaultWorkerCount is used
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: DefaultWorkerCount,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", DefaultWorkerCount)
	}

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		logger:      logger.With("component", "worker_pool"),
	}
}

// WorkerCount returns the number of workers the pool starts.
func (p *WorkerPool) WorkerCount() int {
	return p.workerCount
}

// Start launches the workers and returns the completion channel.
//
// Every task read from the queue yields exactly one Completion. Once ctx is
// cancelled (or Stop is called) workers stop executing and report the
// remaining queued tasks as cancelled. The channel is closed after the queue
// is closed and every worker has exited, so the caller must drain it.
func (p *WorkerPool) Start(ctx context.Context) <-chan Completion {
	runCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	results := make(chan Completion)
	g := new(errgroup.Group)

	p.logger.Debug("starting workers", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		workerID := i + 1
		g.Go(func() error {
			p.worker(runCtx, workerID, results)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		cancel()
		close(results)
		p.logger.Debug("all workers stopped")
	}()

	return results
}

// Stop cancels the current run. Tasks already executing see a cancelled
// context; queued tasks are reported as cancelled.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *WorkerPool) worker(ctx context.Context, workerID int, results chan<- Completion) {
	log := p.logger.With("worker_id", workerID)

	for t := range p.taskQueue.GetChannel() {
		if err := ctx.Err(); err != nil {
			results <- Completion{Task: t, Err: err, Status: TaskStatusCancelled, WorkerID: workerID}
			continue
		}

		log.Debug("processing task", "task_id", t.ID(), "task_type", t.Type())
		start := time.Now()
		err := execute(ctx, t)
		c := Completion{
			Task:     t,
			Err:      err,
			Status:   TaskStatusCompleted,
			WorkerID: workerID,
			Duration: time.Since(start),
		}
		if err != nil {
			c.Status = TaskStatusFailed
			log.Debug("task failed", "task_id", t.ID(), "error", err)
		}
		results <- c
	}
}

// execute runs t, turning a panic into an error.
func execute(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: task %s: %v", ErrTaskPanicked, t.ID(), r)
		}
	}()
	return t.Execute(ctx)
}
