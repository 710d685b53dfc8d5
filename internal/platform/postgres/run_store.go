package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/platform/logger"
	"github.com/phrazzld/rewriter/internal/store"
)

var runColumns = []string{
	"id", "status", "total", "updated", "skipped", "persist_failed", "error", "started_at", "finished_at",
}

// PostgresRunStore implements the store.RunStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRunStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRunStore creates a new PostgreSQL implementation of the RunStore interface.
func NewPostgresRunStore(db store.DBTX, logger *slog.Logger) *PostgresRunStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRunStore{
		db:     db,
		logger: logger.With(slog.String("component", "run_store")),
	}
}

// Ensure PostgresRunStore implements store.RunStore interface
var _ store.RunStore = (*PostgresRunStore)(nil)

// Create implements store.RunStore.
func (s *PostgresRunStore) Create(ctx context.Context, run *domain.Run) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args, err := psql.Insert("rewrite_runs").
		Columns(runColumns...).
		Values(
			run.ID,
			string(run.Status),
			run.Total,
			run.Updated,
			run.Skipped,
			run.PersistFailed,
			run.Error,
			run.StartedAt,
			run.FinishedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build run insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		log.Error("failed to create run",
			slog.String("run_id", run.ID.String()),
			slog.String("error", err.Error()))
		return writeError("run", "create", err)
	}

	log.Debug("run created", slog.String("run_id", run.ID.String()))
	return nil
}

// Update implements store.RunStore.
func (s *PostgresRunStore) Update(ctx context.Context, run *domain.Run) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args, err := psql.Update("rewrite_runs").
		SetMap(map[string]interface{}{
			"status":         string(run.Status),
			"total":          run.Total,
			"updated":        run.Updated,
			"skipped":        run.Skipped,
			"persist_failed": run.PersistFailed,
			"error":          run.Error,
			"finished_at":    run.FinishedAt,
		}).
		Where(sq.Eq{"id": run.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build run update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to update run",
			slog.String("run_id", run.ID.String()),
			slog.String("error", err.Error()))
		return writeError("run", "update", err)
	}

	return CheckRowsAffected(result, store.ErrRunNotFound)
}

// GetByID implements store.RunStore.
func (s *PostgresRunStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args, err := psql.Select(runColumns...).
		From("rewrite_runs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build run query: %w", err)
	}

	var (
		run        domain.Run
		status     string
		finishedAt sql.NullTime
	)
	err = s.db.QueryRowContext(ctx, sqlText, args...).Scan(
		&run.ID,
		&status,
		&run.Total,
		&run.Updated,
		&run.Skipped,
		&run.PersistFailed,
		&run.Error,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRunNotFound
		}
		log.Error("failed to get run",
			slog.String("run_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	run.Status = domain.RunStatus(status)
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
