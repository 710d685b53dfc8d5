package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/platform/logger"
	"github.com/phrazzld/rewriter/internal/store"
)

const upsertSummaryQuery = `
	INSERT INTO summaries (record_id, summary, created_at, updated_at)
	VALUES ($1, $2, $3, $3)
	ON CONFLICT (record_id) DO UPDATE
	SET summary = EXCLUDED.summary, updated_at = EXCLUDED.updated_at`

const getSummaryQuery = `
	SELECT record_id, summary, created_at, updated_at
	FROM summaries
	WHERE record_id = $1`

// PostgresSummaryStore implements the store.SummaryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSummaryStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresSummaryStore creates a new PostgreSQL implementation of the SummaryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSummaryStore(db store.DBTX, logger *slog.Logger) *PostgresSummaryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSummaryStore{
		db:     db,
		logger: logger.With(slog.String("component", "summary_store")),
		now:    time.Now,
	}
}

// Ensure PostgresSummaryStore implements store.SummaryStore interface
var _ store.SummaryStore = (*PostgresSummaryStore)(nil)

// UpsertSummary implements store.SummaryStore. The record is not required to
// exist: summaries are linked to records by id only.
func (s *PostgresSummaryStore) UpsertSummary(ctx context.Context, recordID int64, summary string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sum, err := domain.NewSummary(recordID, summary, s.now())
	if err != nil {
		return store.NewStoreError(
			"summary",
			"upsert",
			"invalid summary",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err),
		)
	}

	_, err = s.db.ExecContext(ctx, upsertSummaryQuery, sum.RecordID, sum.Summary, sum.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert summary",
			slog.Int64("record_id", recordID),
			slog.String("error", err.Error()))
		return writeError("summary", "upsert", err)
	}

	log.Debug("summary upserted",
		slog.Int64("record_id", recordID),
		slog.Int("summary_length", len(summary)))
	return nil
}

// GetByRecordID implements store.SummaryStore.
func (s *PostgresSummaryStore) GetByRecordID(ctx context.Context, recordID int64) (*domain.Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sum domain.Summary
	err := s.db.QueryRowContext(ctx, getSummaryQuery, recordID).
		Scan(&sum.RecordID, &sum.Summary, &sum.CreatedAt, &sum.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSummaryNotFound
		}
		log.Error("failed to get summary",
			slog.Int64("record_id", recordID),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &sum, nil
}

// WithTx implements store.SummaryStore.
func (s *PostgresSummaryStore) WithTx(tx *sql.Tx) store.SummaryStore {
	return &PostgresSummaryStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}
