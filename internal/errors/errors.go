package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic runtime error.
	ExitErrorUsage    = 2   // Indicates a command-line usage error.
	ExitErrorConfig   = 4   // Indicates a benchmark definition or configuration error.
	ExitErrorCanceled = 130 // Indicates the run was interrupted (e.g., SIGINT).
)

// ConfigError represents a benchmark definition or configuration error, such
// as a missing file or an invalid field value. It indicates that the run
// cannot proceed and that no worker process has been started.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents a benchmark definition validation failure. It
// identifies which field failed validation and provides a human-readable
// explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
//
// Returns:
//   - string: The error message string.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// SpawnError encapsulates a worker process start failure while preserving the
// original cause. A SpawnError for one instance never aborts the round; it is
// recorded against that instance only.
type SpawnError struct {
	// Instance is the name of the instance whose worker failed to start.
	Instance string
	// Cause is the underlying error returned by the operating system.
	Cause error
}

// Error returns a formatted message describing the spawn failure.
//
// Returns:
//   - string: The error message string.
func (e SpawnError) Error() string {
	return fmt.Sprintf("instance %q failed to start: %v", e.Instance, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the SpawnError.
func (e SpawnError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
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
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the application exit code that should be
// reported to the OS. Context cancellation maps to the interrupted code,
// configuration and validation errors to the configuration code, and
// everything else to the generic code.
//
// Parameters:
//   - err: The error to classify. May be nil.
//
// Returns:
//   - int: The exit code for the error.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsContextError(err) {
		return ExitErrorCanceled
	}
	var ce ConfigError
	var ve ValidationError
	if errors.As(err, &ce) || errors.As(err, &ve) {
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}
