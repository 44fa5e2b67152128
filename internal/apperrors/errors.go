// Package apperrors defines the error taxonomy shared by the import pipeline.
//
// Only ErrSourceUnavailable aborts a run. Every other condition is recovered
// locally and reported through the run summary.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the HTML snapshot could not be loaded at all.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrRowMalformed marks a table row with fewer cells than required.
	ErrRowMalformed = errors.New("row malformed")
	// ErrExtractionAmbiguous marks a field extractor that found no expected pattern.
	ErrExtractionAmbiguous = errors.New("extraction ambiguous")
	// ErrResolutionFallback marks a college or location lookup that found no match.
	ErrResolutionFallback = errors.New("resolution fallback")
	// ErrStorage wraps persistence failures for a single record.
	ErrStorage = errors.New("storage error")
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate natural key")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RecordError describes a failure attached to one table row or course.
type RecordError struct {
	Err     error
	Row     int
	Key     string
	Message string
}

// NewRecordError creates a RecordError for the given row and natural key.
func NewRecordError(err error, row int, key, message string) *RecordError {
	return &RecordError{
		Err:     err,
		Row:     row,
		Key:     key,
		Message: message,
	}
}

// Error implements the error interface
func (e *RecordError) Error() string {
	var prefix string
	switch {
	case e.Key != "":
		prefix = fmt.Sprintf("row %d (%s)", e.Row, e.Key)
	default:
		prefix = fmt.Sprintf("row %d", e.Row)
	}

	if e.Message != "" {
		return prefix + ": " + e.Message
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix + ": unknown error"
}

// Unwrap implements errors.Unwrap
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Kind returns the taxonomy name of err, or "error" when err is not part of it.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrRowMalformed):
		return "row_malformed"
	case errors.Is(err, ErrExtractionAmbiguous):
		return "extraction_ambiguous"
	case errors.Is(err, ErrResolutionFallback):
		return "resolution_fallback"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}

// Storage wraps err as a storage failure, preserving the original cause.
// An err that is already a storage failure only gains the op prefix.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
