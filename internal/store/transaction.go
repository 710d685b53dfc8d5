package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phrazzld/rewriter/internal/platform/logger"
)

// TxFn is a unit of work run inside a transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in a transaction and commits it when fn returns nil.
//
// An error from fn rolls the transaction back and is returned as is, so the
// caller can still match store errors such as ErrRecordNotFound. Failures of
// the transaction itself (begin, commit, rollback) wrap ErrTransactionFailed.
// A panic in fn rolls back and is re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.ErrorContext(ctx, "failed to roll back transaction after panic", "error", rbErr, "panic", p)
			} else {
				log.ErrorContext(ctx, "rolled back transaction after panic", "panic", p)
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.ErrorContext(ctx, "failed to roll back transaction",
				"rollback_error", rbErr,
				"error", err)
			return fmt.Errorf("%w: rollback: %v (cause: %w)", ErrTransactionFailed, rbErr, err)
		}
		log.DebugContext(ctx, "transaction rolled back", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.ErrorContext(ctx, "failed to commit transaction", "error", err)
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}

	log.DebugContext(ctx, "transaction committed")
	return nil
}
