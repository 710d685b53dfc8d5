package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/rewriter/internal/api/shared"
	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/platform/logger"
	"github.com/phrazzld/rewriter/internal/rewrite"
	"github.com/phrazzld/rewriter/internal/store"
)

// RunLauncher creates the history row of a run and starts it in the
// background. It fails with rewrite.ErrRunInProgress while another run is active.
type RunLauncher interface {
	Launch(ctx context.Context, opts rewrite.RunOptions) (*domain.Run, error)
}

// StartRunRequest is the body of POST /api/runs. Every field is optional.
type StartRunRequest struct {
	IDs     []int64 `json:"ids"     validate:"omitempty,unique,dive,gt=0"`
	Limit   int     `json:"limit"   validate:"gte=0"`
	Workers int     `json:"workers" validate:"gte=0,lte=100"`
}

// RunResponse is the JSON form of a run.
type RunResponse struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Total         int        `json:"total"`
	Updated       int        `json:"updated"`
	Skipped       int        `json:"skipped"`
	PersistFailed int        `json:"persist_failed"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// RunHandler handles run-related HTTP requests. Runs are created through the
// launcher and read back through the store.
type RunHandler struct {
	runs     store.RunStore
	launcher RunLauncher
	logger   *slog.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(runs store.RunStore, launcher RunLauncher, logger *slog.Logger) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{
		runs:     runs,
		launcher: launcher,
		logger:   logger.With("component", "run_handler"),
	}
}

// StartRun handles POST /api/runs. The run row is created before the
// response so its id can be polled right away. A request made while another
// run is active gets 409 Conflict.
func (h *RunHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartRunRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	run, err := h.launcher.Launch(r.Context(), rewrite.RunOptions{
		IDs:         req.IDs,
		Limit:       req.Limit,
		WorkerCount: req.Workers,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r,
			MapErrorToStatusCode(err),
			startRunErrorMessage(err),
			err,
		)
		return
	}

	log.Info("run accepted",
		"run_id", run.ID,
		"ids", len(req.IDs),
		"limit", req.Limit,
		"workers", req.Workers)
	shared.RespondWithJSON(w, r, http.StatusAccepted, runToResponse(run))
}

// GetRun handles GET /api/runs/{id}.
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, runToResponse(run))
}

func startRunErrorMessage(err error) string {
	if errors.Is(err, rewrite.ErrRunInProgress) {
		return GetSafeErrorMessage(err)
	}
	return "Failed to start run"
}

func runToResponse(run *domain.Run) RunResponse {
	return RunResponse{
		ID:            run.ID.String(),
		Status:        string(run.Status),
		Total:         run.Total,
		Updated:       run.Updated,
		Skipped:       run.Skipped,
		PersistFailed: run.PersistFailed,
		Error:         run.Error,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
	}
}
