package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/rewriter/internal/api/middleware"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Runs    *RunHandler
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewRouter builds the service router.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/runs", cfg.Runs.StartRun)
		r.Get("/runs/{id}", cfg.Runs.GetRun)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("Failed to write health check response", "error", err)
		}
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	return r
}
