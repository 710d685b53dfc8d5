package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/events"
	"github.com/phrazzld/rewriter/internal/redact"
	"github.com/phrazzld/rewriter/internal/store"
	"github.com/phrazzld/rewriter/internal/task"
)

// TaskTypeRecordRewrite identifies record tasks on the worker pool.
const TaskTypeRecordRewrite = "record_rewrite"

// RecordSource provides the snapshot of records for a run.
type RecordSource interface {
	ListRecords(ctx context.Context, filter store.RecordFilter) ([]domain.Record, error)
}

// RecordProcessor produces the outcome for a single record.
type RecordProcessor interface {
	Process(ctx context.Context, rec domain.Record) domain.Outcome
}

// Config holds the optional settings of an Orchestrator.
type Config struct {
	// WorkerCount caps concurrent record processing. Defaults to task.DefaultWorkerCount.
	WorkerCount int

	// Runs, when set, receives a history row per run.
	Runs store.RunStore

	// Clock stamps updated records. Defaults to time.Now.
	Clock func() time.Time
}

// RunOptions narrows a single run.
type RunOptions struct {
	// RunID is used as the run identifier when set. The caller is then
	// responsible for having created the history row.
	RunID uuid.UUID

	// IDs and Limit filter the record snapshot.
	IDs   []int64
	Limit int

	// WorkerCount overrides Config.WorkerCount when positive.
	WorkerCount int
}

// Orchestrator runs a batch: load, dispatch, drain, persist, notify.
type Orchestrator struct {
	source      RecordSource
	processor   RecordProcessor
	gateway     Gateway
	emitter     events.EventEmitter
	runs        store.RunStore
	workerCount int
	now         func() time.Time
	logger      *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	source RecordSource,
	processor RecordProcessor,
	gateway Gateway,
	emitter events.EventEmitter,
	cfg Config,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if source == nil || processor == nil || gateway == nil || emitter == nil {
		return nil, fmt.Errorf("%w: source, processor, gateway and emitter are required", ErrInvalidConfig)
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = task.DefaultWorkerCount
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		source:      source,
		processor:   processor,
		gateway:     gateway,
		emitter:     emitter,
		runs:        cfg.Runs,
		workerCount: cfg.WorkerCount,
		now:         cfg.Clock,
		logger:      logger.With("component", "orchestrator"),
	}, nil
}

// recordTask adapts one record to task.Task. The outcome is read only after
// the pool reports the task's completion.
type recordTask struct {
	id        uuid.UUID
	record    domain.Record
	processor RecordProcessor

	outcome  domain.Outcome
	executed bool
}

func (t *recordTask) ID() uuid.UUID { return t.id }

func (t *recordTask) Type() string { return TaskTypeRecordRewrite }

func (t *recordTask) Execute(ctx context.Context) error {
	t.outcome = t.processor.Process(ctx, t.record)
	t.executed = true
	return t.outcome.Err
}

// Run processes every record of the snapshot once. A record whose stages
// fail is skipped; a record whose writes fail is reported separately. The
// only error returned is a failure to load the snapshot.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{RunID: opts.RunID, StartedAt: o.now().UTC()}
	if report.RunID == uuid.Nil {
		report.RunID = uuid.New()
		o.createRun(ctx, report)
	}

	log := o.logger.With("run_id", report.RunID)

	records, err := o.source.ListRecords(ctx, store.RecordFilter{IDs: opts.IDs, Limit: opts.Limit})
	if err != nil {
		log.ErrorContext(ctx, "failed to load records", "error", err)
		report.FinishedAt = o.now().UTC()
		o.finishRun(ctx, report, redact.Error(err))
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	report.Total = len(records)

	workers := o.workerCount
	if opts.WorkerCount > 0 {
		workers = opts.WorkerCount
	}
	log.InfoContext(ctx, "starting rewrite run", "records", len(records), "workers", workers)

	queue := task.NewTaskQueue(len(records), log)
	for _, rec := range records {
		t := &recordTask{id: uuid.New(), record: rec, processor: o.processor}
		if err := queue.Enqueue(t); err != nil {
			// The queue is sized to the snapshot, so this cannot happen.
			queue.Close()
			return nil, fmt.Errorf("failed to enqueue record %d: %w", rec.ID, err)
		}
	}
	queue.Close()

	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: workers}, log)
	for c := range pool.Start(ctx) {
		rt, ok := c.Task.(*recordTask)
		if !ok {
			log.ErrorContext(ctx, "unexpected task type on completion channel", "task_type", c.Task.Type())
			continue
		}

		outcome := rt.outcome
		if !rt.executed {
			// Cancelled before it started, or the processor panicked.
			outcome = domain.Failure(rt.record.ID, "", c.Err)
		}

		o.handleOutcome(ctx, log, report, outcome, c.Duration)
	}

	report.FinishedAt = o.now().UTC()
	o.emit(ctx, log, events.TypeRunCompleted, report.RunID, events.RunPayload{
		Total:         report.Total,
		Updated:       report.Updated,
		Skipped:       report.Skipped,
		PersistFailed: report.PersistFailed,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
	})
	o.finishRun(ctx, report, "")

	log.InfoContext(ctx, "rewrite run finished",
		"total", report.Total,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"persist_failed", report.PersistFailed,
		"duration_ms", report.Duration().Milliseconds())

	return report, nil
}

func (o *Orchestrator) handleOutcome(
	ctx context.Context,
	log *slog.Logger,
	report *Report,
	outcome domain.Outcome,
	elapsed time.Duration,
) {
	payload := events.RecordPayload{RecordID: outcome.RecordID, Elapsed: elapsed}

	if !outcome.Succeeded() {
		report.Skipped++
		payload.Stage = string(outcome.FailedStage)
		payload.Error = redact.Error(outcome.Err)
		o.emit(ctx, log, events.TypeRecordSkipped, report.RunID, payload)
		return
	}

	err := persist(ctx, o.gateway, Write{
		RecordID:    outcome.RecordID,
		Title:       outcome.Title,
		Description: outcome.Description,
		Summary:     outcome.Summary,
		UpdatedAt:   o.now().UTC(),
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to persist record",
			append([]any{"record_id", outcome.RecordID}, persistFailureAttrs(err)...)...)
		report.addPersistError(err)
		payload.Error = redact.Error(err)
		o.emit(ctx, log, events.TypeRecordPersistFailed, report.RunID, payload)
		return
	}

	report.Updated++
	o.emit(ctx, log, events.TypeRecordUpdated, report.RunID, payload)
}

// emit publishes an event. Handler failures are logged and never stop the run.
func (o *Orchestrator) emit(ctx context.Context, log *slog.Logger, eventType string, runID uuid.UUID, payload any) {
	event, err := events.NewEvent(eventType, runID, payload)
	if err != nil {
		log.ErrorContext(ctx, "failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := o.emitter.EmitEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "event handler failed", "event_type", eventType, "error", err)
	}
}

func (o *Orchestrator) createRun(ctx context.Context, report *Report) {
	if o.runs == nil {
		return
	}
	run := &domain.Run{ID: report.RunID, Status: domain.RunStatusRunning, StartedAt: report.StartedAt}
	if err := o.runs.Create(ctx, run); err != nil {
		o.logger.WarnContext(ctx, "failed to record run start", "run_id", report.RunID, "error", err)
	}
}

func (o *Orchestrator) finishRun(ctx context.Context, report *Report, errMsg string) {
	if o.runs == nil {
		return
	}
	run := &domain.Run{ID: report.RunID, StartedAt: report.StartedAt}
	run.Finish(report.Total, report.Updated, report.Skipped, report.PersistFailed, errMsg)
	finished := report.FinishedAt
	run.FinishedAt = &finished

	// The run row must be written even when the run context was cancelled.
	if err := o.runs.Update(context.WithoutCancel(ctx), run); err != nil {
		o.logger.WarnContext(ctx, "failed to record run result", "run_id", report.RunID, "error", err)
	}
}
