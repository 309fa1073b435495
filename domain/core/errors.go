package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrResultNotFound  = fmt.Errorf("%w: readiness result", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)

	// Data quality errors
	ErrInsufficientData = errors.New("insufficient data for calculation")
	ErrMetricParse      = errors.New("malformed metric sample")
	ErrUnknownMetric    = errors.New("unknown metric type")

	// Infrastructure errors
	ErrStorage = errors.New("storage failure")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMetricParseError(metric string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMetricParse, metric, reason)
}

func NewStorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable reports whether the caller should retry on the next
// trigger. Only infrastructure failures qualify; data-quality errors
// are final for a given snapshot.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage)
}
