package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the session lacks the permission a
	// write operation needs.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidScan is returned when an uploaded scan is not a PDF.
	ErrInvalidScan = errors.New("scan is not a PDF document")
)

// ValidationError reports a single invalid form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
