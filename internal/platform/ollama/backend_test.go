package ollama_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/rewriter/internal/generation"
	"github.com/phrazzld/rewriter/internal/platform/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBackendName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ollama:phi3", ollama.NewBackend(ollama.Config{}, nil).Name())
	assert.Equal(t, "ollama:llama3", ollama.NewBackend(ollama.Config{Model: "llama3"}, nil).Name())
}

func TestBackendComplete(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"phi3","response":" Seaside cabin ","done":true}`))
	}))
	defer srv.Close()

	b := ollama.NewBackend(ollama.Config{Endpoint: srv.URL + "/"}, testLogger())
	text, err := b.Complete(context.Background(), "rewrite this")
	require.NoError(t, err)
	assert.Equal(t, " Seaside cabin ", text)

	assert.Equal(t, "phi3", got["model"])
	assert.Equal(t, "rewrite this", got["prompt"])
	assert.Equal(t, false, got["stream"])
}

func TestBackendCompleteFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantCause error
		wantText  string
	}{
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     "model not loaded",
			wantText: "status 500: model not loaded",
		},
		{
			name:      "malformed json",
			status:    http.StatusOK,
			body:      `{"response":`,
			wantCause: generation.ErrInvalidResponse,
		},
		{
			name:      "error field",
			status:    http.StatusOK,
			body:      `{"error":"model 'phi3' not found"}`,
			wantCause: generation.ErrInvalidResponse,
		},
		{
			name:      "not done",
			status:    http.StatusOK,
			body:      `{"response":"partial","done":false}`,
			wantCause: generation.ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := ollama.NewBackend(ollama.Config{Endpoint: srv.URL}, testLogger())
			_, err := b.Complete(context.Background(), "p")
			require.Error(t, err)
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

func TestBackendHonorsContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b := ollama.NewBackend(ollama.Config{Endpoint: srv.URL}, testLogger())
	_, err := b.Complete(ctx, "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
