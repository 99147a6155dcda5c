// Package apperror defines the error values shared by the store, the
// validation layer, the ingestion adapter and the HTTP handlers.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyState is returned when an export is attempted with no leads stored.
	ErrEmptyState = errors.New("no leads to export")
)

// ValidationError reports the first field of a payload that failed validation.
type ValidationError struct {
	Field    string
	Expected string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid payload: expected %s", e.Expected)
	}
	return fmt.Sprintf("invalid %s: expected %s", e.Field, e.Expected)
}

// UpstreamError wraps a failure of the external scraping service.
type UpstreamError struct {
	Msg string
	Err error
}

// NewUpstreamError builds an UpstreamError from a message and an optional cause.
func NewUpstreamError(msg string, err error) *UpstreamError {
	return &UpstreamError{Msg: msg, Err: err}
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
