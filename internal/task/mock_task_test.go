package task

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id     uuid.UUID
	execFn func(ctx context.Context) error
}

func (m *mockTask) ID() uuid.UUID {
	return m.id
}

func (m *mockTask) Type() string {
	return "mock"
}

func (m *mockTask) Execute(ctx context.Context) error {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return nil
}

func newMockTask(execFn func(ctx context.Context) error) *mockTask {
	return &mockTask{id: uuid.New(), execFn: execFn}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
