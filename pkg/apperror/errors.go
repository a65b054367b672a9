package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrStore             = errors.New("store failure")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Machine-checkable error kinds rendered next to the message.
const (
	KindNotFound     = "not_found"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindValidation   = "validation_error"
	KindConflict     = "conflict"
	KindStore        = "store_error"
	KindRateLimit    = "rate_limited"
	KindInternal     = "internal"
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Store marks err as an underlying persistence failure.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}

// FromRepo converts a repository error into the taxonomy: a missing record
// becomes ErrNotFound, anything else ErrStore.
func FromRepo(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	if isTaxonomy(err) {
		return err
	}
	return Store(err)
}

func isTaxonomy(err error) bool {
	for _, target := range []error{ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrInvalidInput, ErrConflict, ErrStore, ErrRateLimitExceeded} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// Kind returns the machine-checkable kind of err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrRateLimitExceeded):
		return KindRateLimit
	case errors.Is(err, ErrStore):
		return KindStore
	default:
		return KindInternal
	}
}
