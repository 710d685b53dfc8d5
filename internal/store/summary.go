package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/rewriter/internal/domain"
)

// SummaryStore defines the interface for record summary persistence.
// There is at most one summary per record.
type SummaryStore interface {
	// UpsertSummary creates the summary for recordID, or replaces the text of
	// the existing one.
	UpsertSummary(ctx context.Context, recordID int64, summary string) error

	// GetByRecordID retrieves the summary for a record.
	// Returns ErrSummaryNotFound if the record has no summary.
	GetByRecordID(ctx context.Context, recordID int64) (*domain.Summary, error)

	// WithTx returns a new SummaryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SummaryStore
}
