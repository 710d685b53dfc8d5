package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/rewriter/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	generic := errors.New("some database error")

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{name: "nil_error", err: nil},
		{name: "sql_no_rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{
			name:   "unique_violation",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "records_pkey"},
			wantIs: store.ErrDuplicate,
		},
		{
			name:    "check_violation",
			err:     &pgconn.PgError{Code: checkViolationCode, ConstraintName: "rewrite_runs_status_check"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "check constraint violation",
		},
		{
			name:    "not_null_violation",
			err:     &pgconn.PgError{Code: notNullViolationCode, ColumnName: "summary"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "not null violation (summary)",
		},
		{name: "generic_error", err: generic, wantIs: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.wantIs)
			if tt.wantMsg != "" {
				assert.Contains(t, got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	err := writeError("record", "update", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "records_title_check"})

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "record", storeErr.Entity)
	assert.Equal(t, "update", storeErr.Operation)
	assert.ErrorIs(t, err, store.ErrUpdateFailed)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "update operation on record failed: write rejected")

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("nil_result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, store.ErrRecordNotFound))
	})

	t.Run("rows_affected", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrRecordNotFound))
	})

	t.Run("no_rows_uses_given_error", func(t *testing.T) {
		err := CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrRunNotFound)
		assert.ErrorIs(t, err, store.ErrRunNotFound)
	})

	t.Run("no_rows_default_error", func(t *testing.T) {
		err := CheckRowsAffected(sqlmock.NewResult(0, 0), nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows_affected_error", func(t *testing.T) {
		err := CheckRowsAffected(sqlmock.NewErrorResult(errors.New("driver gave up")), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "driver gave up")
	})
}
