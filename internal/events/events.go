package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted during a rewrite run.
const (
	// TypeRecordUpdated is emitted after a record and its summary were persisted.
	TypeRecordUpdated = "record.updated"

	// TypeRecordSkipped is emitted when a stage failed and nothing was written.
	TypeRecordSkipped = "record.skipped"

	// TypeRecordPersistFailed is emitted when generation succeeded but the writes did not.
	TypeRecordPersistFailed = "record.persist_failed"

	// TypeRunCompleted is emitted once every record of a run has been handled.
	TypeRunCompleted = "run.completed"
)

// Event represents something that happened during a rewrite run.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// RunID identifies the run that produced the event
	RunID uuid.UUID `json:"run_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// RecordPayload is carried by the record.* events.
type RecordPayload struct {
	RecordID int64  `json:"record_id"`
	Stage    string `json:"stage,omitempty"`
	Error    string `json:"error,omitempty"`

	// Elapsed is the time spent generating this record.
	Elapsed time.Duration `json:"elapsed"`
}

// RunPayload is carried by run.completed.
type RunPayload struct {
	Total         int       `json:"total"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	PersistFailed int       `json:"persist_failed"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event of the given type for runID.
func NewEvent(eventType string, runID uuid.UUID, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		RunID:     runID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the orchestrator to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
