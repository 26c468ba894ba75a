package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic or execution error.
	ExitErrorMismatch = 3   // Indicates the parallel total disagreed with the sequential one.
	ExitErrorConfig   = 4   // Indicates a configuration or argument error.
	ExitErrorParse    = 5   // Indicates a malformed dataset file.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// environment values.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// InvalidArgumentError reports an argument that cannot be honored, such as a
// worker pool sized at zero. It is returned before any work is scheduled.
type InvalidArgumentError struct {
	// Name is the name of the offending argument.
	Name string
	// Value is the rejected value.
	Value int
}

// Error returns a formatted message describing the rejected argument.
func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%d: must be positive", e.Name, e.Value)
}

// ParseError reports a dataset line that is not a valid integer. A partially
// parsed dataset is unusable, so the run is aborted.
type ParseError struct {
	// Path is the dataset file being read.
	Path string
	// Line is the 1-based line number.
	Line int
	// Text is the offending line content.
	Text string
	// Cause is the underlying strconv error.
	Cause error
}

// Error returns a formatted message locating the malformed line.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse %s:%d: invalid integer %q: %v", e.Path, e.Line, e.Text, e.Cause)
}

// Unwrap returns the underlying parse error.
func (e ParseError) Unwrap() error { return e.Cause }

// ExecutionError encapsulates a worker task that could not complete, while
// preserving the original cause (a recovered panic or a context error).
type ExecutionError struct {
	// Workers is the pool size of the trial that failed.
	Workers int
	// Cause is the underlying error that triggered this execution error.
	Cause error
}

// Error returns a formatted message including the cause.
func (e ExecutionError) Error() string {
	return fmt.Sprintf("parallel sum with %d workers failed: %v", e.Workers, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e ExecutionError) Unwrap() error { return e.Cause }

// IntegrityMismatchError reports a parallel total that disagrees with the
// sequential baseline. It indicates a defect in partitioning or reduction,
// never an environmental fault, and is never retried.
type IntegrityMismatchError struct {
	// Workers is the worker count of the trial that produced the bad total.
	Workers int
	// Expected is the sequential total.
	Expected int64
	// Got is the parallel total.
	Got int64
}

// Error returns a formatted message describing the mismatch.
func (e IntegrityMismatchError) Error() string {
	return fmt.Sprintf("integrity mismatch with %d workers: parallel sum %d does not match sequential sum %d",
		e.Workers, e.Got, e.Expected)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error chain to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		mismatch IntegrityMismatchError
		parseErr ParseError
		argErr   InvalidArgumentError
		cfgErr   ConfigError
	)
	switch {
	case errors.As(err, &mismatch):
		return ExitErrorMismatch
	case errors.As(err, &parseErr):
		return ExitErrorParse
	case errors.As(err, &argErr), errors.As(err, &cfgErr):
		return ExitErrorConfig
	case IsContextError(err):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
