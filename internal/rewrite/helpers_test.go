package rewrite_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/phrazzld/rewriter/internal/events"
	"github.com/phrazzld/rewriter/internal/mocks"
	"github.com/phrazzld/rewriter/internal/prompt"
	"github.com/stretchr/testify/require"
)

// Test prompts use a pipe-separated layout so the fake generator can tell the
// stages apart and read back their inputs.
const testPromptYAML = `
title: "T|{{.MaxLength}}|{{.Title}}"
description: "D|{{.MaxLength}}|{{.Title}}"
summary: "S|{{.Title}}|{{.Description}}"
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPrompts(t *testing.T) *prompt.Set {
	t.Helper()
	set, err := prompt.Parse([]byte(testPromptYAML))
	require.NoError(t, err)
	return set
}

// stageCall is a parsed test prompt.
type stageCall struct {
	Stage string
	Args  []string
}

func parsePrompt(p string) stageCall {
	parts := strings.Split(p, "|")
	return stageCall{Stage: parts[0], Args: parts[1:]}
}

// echoGenerator answers each stage from its input:
// title "X" becomes "New X", description is "About <title>",
// summary is "Sum: <title>". fail may return an error for a stage call.
func echoGenerator(fail func(call stageCall) error) *mocks.Generator {
	return &mocks.Generator{
		GenerateFn: func(ctx context.Context, p string) (string, error) {
			call := parsePrompt(p)
			if fail != nil {
				if err := fail(call); err != nil {
					return "", err
				}
			}
			switch call.Stage {
			case "T":
				return "New " + call.Args[1], nil
			case "D":
				return "About " + call.Args[1], nil
			case "S":
				return "Sum: " + call.Args[0], nil
			default:
				return "", fmt.Errorf("unexpected prompt %q", p)
			}
		},
	}
}

// eventRecorder collects emitted events.
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *eventRecorder) HandleEvent(ctx context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *eventRecorder) recordIDs(t *testing.T, eventType string) []int64 {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for _, e := range r.events {
		if e.Type != eventType {
			continue
		}
		var payload events.RecordPayload
		require.NoError(t, e.UnmarshalPayload(&payload))
		ids = append(ids, payload.RecordID)
	}
	return ids
}
