package errors

import (
	"errors"
	"fmt"

	"fieldready/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code, mapping domain sentinels onto the
// taxonomy; unknown errors read as internal.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return codeFor(err)
}

// Error codes making up the engine taxonomy. Data insufficiency and
// parse failures are non-fatal; only storage errors are retryable.
const (
	CodeDataInsufficient = "DATA_INSUFFICIENT"
	CodeMetricParse      = "METRIC_PARSE"
	CodeProfileMissing   = "PROFILE_MISSING"
	CodeStorageError     = "STORAGE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
)

// codeFor maps domain sentinel errors onto taxonomy codes
func codeFor(err error) string {
	switch {
	case errors.Is(err, core.ErrInsufficientData):
		return CodeDataInsufficient
	case errors.Is(err, core.ErrMetricParse):
		return CodeMetricParse
	case errors.Is(err, core.ErrProfileNotFound):
		return CodeProfileMissing
	case errors.Is(err, core.ErrStorage):
		return CodeStorageError
	case core.IsNotFoundError(err):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// Common error constructors
func DataInsufficient(message string) *AppError {
	return New(CodeDataInsufficient, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func StorageError(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeStorageError,
		Message: fmt.Sprintf("storage failure during %s", operation),
		Cause:   cause,
	}
}

// IsRetryable reports whether the caller should retry on its next
// trigger. Only storage failures qualify.
func IsRetryable(err error) bool {
	return GetCode(err) == CodeStorageError
}
