package dto

import (
	"net/http"

	"github.com/erp/sales/internal/domain/shared"
)

// Error codes returned by the API when no more specific domain code applies
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for resource conflicts
	ErrCodeConflict = "CONFLICT"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// HTTPStatusForKind maps a domain error kind to an HTTP status code
func HTTPStatusForKind(kind shared.ErrorKind) int {
	switch kind {
	case shared.ErrorKindValidation:
		return http.StatusBadRequest
	case shared.ErrorKindNotFound:
		return http.StatusNotFound
	case shared.ErrorKindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusForError maps an error to an HTTP status code via its domain kind.
// Errors that are not domain errors map to 500.
func HTTPStatusForError(err error) int {
	return HTTPStatusForKind(shared.KindOf(err))
}

// CodeForError extracts the domain error code, falling back to a generic code
func CodeForError(err error) string {
	if code := shared.CodeOf(err); code != "" {
		return code
	}
	return ErrCodeInternal
}
