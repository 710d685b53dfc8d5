package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/rewriter/internal/api/shared"
	"github.com/phrazzld/rewriter/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraceMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seenTrace string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	NewTraceMiddleware(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seenTrace)
	assert.Equal(t, seenTrace, rec.Header().Get("X-Trace-ID"))
	assert.Contains(t, buf.String(), `"msg":"handled","trace_id":"`+seenTrace+`"`)
	assert.Contains(t, buf.String(), "request started")
}
