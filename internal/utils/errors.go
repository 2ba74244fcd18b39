package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain-level errors. Every failure a repository or service returns
// matches exactly one of these via errors.Is.
var (
	ErrValidation    = errors.New("validation_error")
	ErrNotFound      = errors.New("not_found")
	ErrAlreadyExists = errors.New("already_exists")
	ErrUpstream      = errors.New("upstream_failure")

	// Optimistic-lock conflicts: the row changed since it was read.
	ErrConflict = errors.New("row_version_conflict")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation_error: " + e.Reason
	}
	return fmt.Sprintf("validation_error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError wraps a storage or network failure. It matches both
// ErrUpstream and the underlying cause.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstream, e.Err} }

// Upstream returns err unchanged when it already carries a domain
// classification, otherwise it wraps it as an UpstreamError.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUpstream) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// ToAppError maps a domain error to its public shape. Only validation,
// not-found, conflict and already-exists errors expose their message;
// everything else becomes a generic internal error.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: vErr.Error(), Err: err}
	case errors.Is(err, ErrValidation):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: err.Error(), Err: err}
	case errors.Is(err, ErrNotFound):
		return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Resource not found", Err: err}
	case errors.Is(err, ErrConflict):
		return &AppError{StatusCode: http.StatusConflict, Code: ErrCodeRowVersionConflict, Message: "Resource was modified concurrently, reload and retry", Err: err}
	case errors.Is(err, ErrAlreadyExists):
		return &AppError{StatusCode: http.StatusConflict, Code: ErrCodeAlreadyExists, Message: "Resource already exists", Err: err}
	default:
		return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrCodeInternal, Message: "An unexpected error occurred", Err: err}
	}
}

// HandleAppError centralizes responding to service errors.
func HandleAppError(w http.ResponseWriter, err error) {
	appErr := ToAppError(err)
	RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
}
