// Package notice prints one human-readable line per run event.
package notice

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/phrazzld/rewriter/internal/events"
)

// Notice lines. Errors are already redacted by the emitter of the event.
const (
	updatedFormat       = "record %d updated and summarized"
	skippedFormat       = "record %d skipped: processing failure"
	persistFailedFormat = "record %d persistence failed: %s"
	completedLine       = "all records processed"
)

// Writer is an events.EventHandler writing notice lines to an io.Writer.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

var _ events.EventHandler = (*Writer)(nil)

// NewWriter creates a Writer on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// HandleEvent implements events.EventHandler. Unknown event types are ignored.
func (w *Writer) HandleEvent(ctx context.Context, event *events.Event) error {
	line, err := Format(event)
	if err != nil || line == "" {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = fmt.Fprintln(w.out, line)
	return err
}

// Format renders the notice line for event, or "" for event types that have none.
func Format(event *events.Event) (string, error) {
	switch event.Type {
	case events.TypeRecordUpdated, events.TypeRecordSkipped, events.TypeRecordPersistFailed:
		var p events.RecordPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return "", fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		switch event.Type {
		case events.TypeRecordUpdated:
			return fmt.Sprintf(updatedFormat, p.RecordID), nil
		case events.TypeRecordSkipped:
			return fmt.Sprintf(skippedFormat, p.RecordID), nil
		default:
			return fmt.Sprintf(persistFailedFormat, p.RecordID, p.Error), nil
		}
	case events.TypeRunCompleted:
		return completedLine, nil
	default:
		return "", nil
	}
}
