package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/rewriter/internal/rewrite"
	"github.com/phrazzld/rewriter/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"run_not_found", store.ErrRunNotFound, http.StatusNotFound},
		{"wrapped_not_found", fmt.Errorf("lookup: %w", store.ErrNotFound), http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"invalid_entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"run_in_progress", fmt.Errorf("%w: 42", rewrite.ErrRunInProgress), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "Run not found", GetSafeErrorMessage(store.ErrRunNotFound))
	assert.Equal(t, "Not found", GetSafeErrorMessage(store.ErrRecordNotFound))
	assert.Equal(t, "A run is already in progress", GetSafeErrorMessage(rewrite.ErrRunInProgress))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t,
		"An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: password authentication failed for user admin")))
}

func TestSanitizeValidationError_NotValidatorError(t *testing.T) {
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("plain")))
}
