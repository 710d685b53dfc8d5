package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/rewriter/internal/domain"
)

// RecordFilter narrows the snapshot returned by ListRecords.
// A zero filter selects every record.
type RecordFilter struct {
	// IDs restricts the result to the given record ids when non-empty.
	IDs []int64

	// Limit caps the number of records returned when greater than zero.
	Limit int
}

// RecordStore defines the interface for record data persistence.
type RecordStore interface {
	// ListRecords returns a snapshot of the records matching filter, ordered by id.
	ListRecords(ctx context.Context, filter RecordFilter) ([]domain.Record, error)

	// GetByID retrieves a single record.
	// Returns ErrRecordNotFound if the record does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Record, error)

	// UpdateRecord replaces the title and description of a record and stamps updatedAt.
	// Returns ErrRecordNotFound if the record does not exist.
	UpdateRecord(ctx context.Context, id int64, title, description string, updatedAt time.Time) error

	// WithTx returns a new RecordStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RecordStore
}
