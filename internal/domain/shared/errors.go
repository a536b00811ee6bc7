package shared

import "errors"

// ErrorKind categorizes a domain error so callers can branch on the
// category instead of matching code strings or exception types.
type ErrorKind string

const (
	// ErrorKindValidation means the request itself is malformed or violates
	// a static constraint (negative amount, missing field, rate out of range)
	ErrorKindValidation ErrorKind = "VALIDATION"
	// ErrorKindConflict means the request is well-formed but inconsistent
	// with the aggregate's current state
	ErrorKindConflict ErrorKind = "CONFLICT"
	// ErrorKindNotFound means a referenced child entity does not exist
	// within the aggregate
	ErrorKindNotFound ErrorKind = "NOT_FOUND"
)

// DomainError represents an expected business-rule failure. It is always
// returned, never panicked; the aggregate is left unchanged when one is
// produced.
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError creates a domain error for a malformed request
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Code: code, Message: message}
}

// NewConflictError creates a domain error for a request that conflicts with
// the aggregate's current state
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindConflict, Code: code, Message: message}
}

// NewNotFoundError creates a domain error for a missing child entity
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindNotFound, Code: code, Message: message}
}

// KindOf returns the kind of a domain error, or an empty kind for errors
// that are not domain errors (programming faults, infrastructure errors)
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf returns the machine-readable code of a domain error, or "" when
// the error is not a domain error
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidation reports whether err is a validation-kind domain error
func IsValidation(err error) bool { return KindOf(err) == ErrorKindValidation }

// IsConflict reports whether err is a conflict-kind domain error
func IsConflict(err error) bool { return KindOf(err) == ErrorKindConflict }

// IsNotFound reports whether err is a not-found-kind domain error
func IsNotFound(err error) bool { return KindOf(err) == ErrorKindNotFound }

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewConflictError("INVALID_STATE", "Operation not allowed in current state")
)
