package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of a batch run.
type RunStatus string

// Possible run status values
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted history entry of one batch execution.
type Run struct {
	ID            uuid.UUID  `json:"id"`
	Status        RunStatus  `json:"status"`
	Total         int        `json:"total"`
	Updated       int        `json:"updated"`
	Skipped       int        `json:"skipped"`
	PersistFailed int        `json:"persist_failed"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// NewRun creates a running Run with a fresh identifier.
func NewRun() *Run {
	return &Run{
		ID:        uuid.New(),
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

// Finish records the final counters and marks the run completed, or failed
// when errMsg is not empty.
func (r *Run) Finish(total, updated, skipped, persistFailed int, errMsg string) {
	now := time.Now().UTC()
	r.Total = total
	r.Updated = updated
	r.Skipped = skipped
	r.PersistFailed = persistFailed
	r.Error = errMsg
	r.FinishedAt = &now
	r.Status = RunStatusCompleted
	if errMsg != "" {
		r.Status = RunStatusFailed
	}
}
