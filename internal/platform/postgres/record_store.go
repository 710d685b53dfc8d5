package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/platform/logger"
	"github.com/phrazzld/rewriter/internal/store"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var recordColumns = []string{"id", "title", "description", "updated_at"}

// PostgresRecordStore implements the store.RecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecordStore creates a new PostgreSQL implementation of the RecordStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresRecordStore(db store.DBTX, logger *slog.Logger) *PostgresRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "record_store")),
	}
}

// Ensure PostgresRecordStore implements store.RecordStore interface
var _ store.RecordStore = (*PostgresRecordStore)(nil)

// ListRecords implements store.RecordStore.
func (s *PostgresRecordStore) ListRecords(
	ctx context.Context,
	filter store.RecordFilter,
) ([]domain.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := psql.Select(recordColumns...).From("records").OrderBy("id")
	if len(filter.IDs) > 0 {
		query = query.Where(sq.Eq{"id": filter.IDs})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build record query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to query records", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("records listed",
		slog.Int("count", len(records)),
		slog.Int("requested_ids", len(filter.IDs)),
		slog.Int("limit", filter.Limit))
	return records, nil
}

// GetByID implements store.RecordStore.
func (s *PostgresRecordStore) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args, err := psql.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build record query: %w", err)
	}

	var rec domain.Record
	err = s.db.QueryRowContext(ctx, sqlText, args...).
		Scan(&rec.ID, &rec.Title, &rec.Description, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("record not found", slog.Int64("record_id", id))
			return nil, store.ErrRecordNotFound
		}
		log.Error("failed to get record", slog.Int64("record_id", id), slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &rec, nil
}

// UpdateRecord implements store.RecordStore.
func (s *PostgresRecordStore) UpdateRecord(
	ctx context.Context,
	id int64,
	title, description string,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args, err := psql.Update("records").
		Set("title", title).
		Set("description", description).
		Set("updated_at", updatedAt.UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build record update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to update record",
			slog.Int64("record_id", id),
			slog.String("error", err.Error()))
		return writeError("record", "update", err)
	}

	if err := CheckRowsAffected(result, store.ErrRecordNotFound); err != nil {
		log.Debug("record update matched no rows", slog.Int64("record_id", id))
		return err
	}

	log.Debug("record updated", slog.Int64("record_id", id))
	return nil
}

// WithTx implements store.RecordStore.
func (s *PostgresRecordStore) WithTx(tx *sql.Tx) store.RecordStore {
	return &PostgresRecordStore{
		db:     tx,
		logger: s.logger,
	}
}
