package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/rewriter/internal/rewrite"
	"github.com/phrazzld/rewriter/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their text.
func MapErrorToStatusCode(err error) int {
	switch {
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	case store.IsDuplicateError(err), errors.Is(err, rewrite.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, store.ErrRunNotFound):
		return "Run not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	case errors.Is(err, rewrite.ErrRunInProgress):
		return "A run is already in progress"
	case store.IsDuplicateError(err):
		return "Run already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a short message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "gte", "min":
		return "too small"
	case "lt", "lte", "max":
		return "too large"
	case "unique":
		return "duplicate values"
	default:
		return "validation failed"
	}
}
