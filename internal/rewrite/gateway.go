package rewrite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/rewriter/internal/store"
)

// Gateway writes a successful outcome back to storage.
type Gateway interface {
	// UpdateRecord replaces the title and description of record id.
	UpdateRecord(ctx context.Context, id int64, title, description string, updatedAt time.Time) error

	// UpsertSummary creates or replaces the single summary of recordID.
	UpsertSummary(ctx context.Context, recordID int64, summary string) error
}

// Committer is implemented by gateways that can apply both writes of a
// record atomically.
type Committer interface {
	Commit(ctx context.Context, w Write) error
}

// Write is everything persisted for one successful record.
type Write struct {
	RecordID    int64
	Title       string
	Description string
	Summary     string
	UpdatedAt   time.Time
}

// persist stores w through gw. Gateways that implement Committer are used
// atomically; otherwise both calls are attempted and their errors combined.
// Any error wraps ErrPersistenceFailed.
func persist(ctx context.Context, gw Gateway, w Write) error {
	var err error
	if c, ok := gw.(Committer); ok {
		err = c.Commit(ctx, w)
	} else {
		err = writeBoth(ctx, gw, w)
	}
	if err != nil {
		return fmt.Errorf("%w: record %d: %w", ErrPersistenceFailed, w.RecordID, err)
	}
	return nil
}

// persistFailureAttrs returns log attributes locating a persistence failure:
// whether the transaction itself failed, and which store write was rejected.
func persistFailureAttrs(err error) []any {
	attrs := []any{
		"error", err,
		"transaction_failed", errors.Is(err, store.ErrTransactionFailed),
	}
	var storeErr *store.StoreError
	if errors.As(err, &storeErr) {
		attrs = append(attrs, "entity", storeErr.Entity, "operation", storeErr.Operation)
	}
	return attrs
}

func writeBoth(ctx context.Context, gw Gateway, w Write) error {
	var result *multierror.Error
	if err := gw.UpdateRecord(ctx, w.RecordID, w.Title, w.Description, w.UpdatedAt); err != nil {
		result = multierror.Append(result, fmt.Errorf("update record: %w", err))
	}
	if err := gw.UpsertSummary(ctx, w.RecordID, w.Summary); err != nil {
		result = multierror.Append(result, fmt.Errorf("upsert summary: %w", err))
	}
	return result.ErrorOrNil()
}

// StoreGateway is a Gateway over a RecordStore and a SummaryStore. With a
// database handle it commits both writes of a record in one transaction.
type StoreGateway struct {
	db        *sql.DB
	records   store.RecordStore
	summaries store.SummaryStore
	logger    *slog.Logger
}

var (
	_ Gateway   = (*StoreGateway)(nil)
	_ Committer = (*StoreGateway)(nil)
)

// NewStoreGateway creates a StoreGateway. db may be nil, in which case the
// two writes are issued independently.
func NewStoreGateway(
	db *sql.DB,
	records store.RecordStore,
	summaries store.SummaryStore,
	logger *slog.Logger,
) (*StoreGateway, error) {
	if records == nil || summaries == nil {
		return nil, fmt.Errorf("%w: record and summary stores are required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreGateway{
		db:        db,
		records:   records,
		summaries: summaries,
		logger:    logger.With("component", "store_gateway"),
	}, nil
}

// UpdateRecord implements Gateway.
func (g *StoreGateway) UpdateRecord(
	ctx context.Context,
	id int64,
	title, description string,
	updatedAt time.Time,
) error {
	return g.records.UpdateRecord(ctx, id, title, description, updatedAt)
}

// UpsertSummary implements Gateway.
func (g *StoreGateway) UpsertSummary(ctx context.Context, recordID int64, summary string) error {
	return g.summaries.UpsertSummary(ctx, recordID, summary)
}

// Commit implements Committer.
func (g *StoreGateway) Commit(ctx context.Context, w Write) error {
	if g.db == nil {
		return writeBoth(ctx, g, w)
	}

	return store.RunInTransaction(ctx, g.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := g.records.WithTx(tx).UpdateRecord(ctx, w.RecordID, w.Title, w.Description, w.UpdatedAt); err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		if err := g.summaries.WithTx(tx).UpsertSummary(ctx, w.RecordID, w.Summary); err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
		g.logger.DebugContext(ctx, "record and summary written", "record_id", w.RecordID)
		return nil
	})
}
