package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	// Create a minimal logger that discards output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newEvent := func(t *testing.T) *Event {
		event, err := NewEvent(TypeRecordUpdated, uuid.New(), RecordPayload{RecordID: 1})
		require.NoError(t, err)
		return event
	}

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		err := emitter.EmitEvent(context.Background(), newEvent(t))
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := newEvent(t)
		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("handlers run in registration order", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		var order []int
		for i := 0; i < 3; i++ {
			emitter.RegisterHandler(HandlerFunc(func(ctx context.Context, event *Event) error {
				order = append(order, i)
				return nil
			}))
		}

		require.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t)))
		assert.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		successHandler := &MockEventHandler{}
		handlerErr := errors.New("handler error")
		failingHandler := &MockEventHandler{
			HandlerError: handlerErr,
		}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		err := emitter.EmitEvent(context.Background(), newEvent(t))
		assert.ErrorIs(t, err, handlerErr)

		// Both handlers should still have received the event
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})

	t.Run("errors from several handlers are collected", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		first := errors.New("notice sink closed")
		second := errors.New("metrics unavailable")
		emitter.RegisterHandler(&MockEventHandler{HandlerError: first})
		emitter.RegisterHandler(&MockEventHandler{HandlerError: second})

		err := emitter.EmitEvent(context.Background(), newEvent(t))
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
	})
}
