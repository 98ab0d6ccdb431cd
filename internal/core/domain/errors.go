package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedScheme indicates an identifier no fetcher can handle.
	ErrUnsupportedScheme = errors.New("unsupported source scheme")

	// Parse Errors.

	// ErrEmptyDocument indicates the document has no non-blank content.
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoDataRows indicates the document holds a header but no data rows.
	ErrNoDataRows = errors.New("no data rows")

	// Cache Errors.

	// ErrCacheMiss indicates no usable entry exists for an identifier.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheExpired indicates the entry outlived its TTL and was removed.
	ErrCacheExpired = errors.New("cache entry expired")

	// ErrCorruptEntry indicates a stored entry could not be decoded.
	ErrCorruptEntry = errors.New("corrupt cache entry")

	// ErrQuotaExceeded indicates the key-value store refused a write for lack of space.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// FetchError is returned once every fetch attempt for an identifier has failed.
// It wraps the failure of the last attempt.
type FetchError struct {
	Identifier string
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.Identifier, e.Attempts, e.Err)
}

// Unwrap returns the last attempt's failure.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError reports a response whose status is outside the success range.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.URL)
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == code
	}
	return false
}
