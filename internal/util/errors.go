package util

import (
	"errors"
	"fmt"
)

// Common error types for the framectl CLI
var (
	// ErrInvalidConfig indicates an invalid or unresolvable configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBuildFailed indicates at least one frame build failed
	ErrBuildFailed = errors.New("build failed")

	// ErrStopped indicates the run stopped before completing all frames
	ErrStopped = errors.New("build stopped")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")
)

// Exit codes produced by the CLI
const (
	// ExitSuccess means every frame built successfully
	ExitSuccess = 0
	// ExitFailure means a frame failed or the run stopped early
	ExitFailure = 1
	// ExitConfig means the configuration was rejected before any work started
	ExitConfig = 2
)

// ConfigError wraps a configuration problem with the offending field
type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invalid configuration for %q (value: %v): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid configuration for %q: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidConfig for errors.Is compatibility
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError creates a new configuration error
func NewConfigError(field string, value interface{}, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FrameError wraps an error with the frame it belongs to
type FrameError struct {
	Frame int
	Err   error
}

// Error implements the error interface
func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %04d: %v", e.Frame, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *FrameError) Unwrap() error {
	return e.Err
}

// WrapFrameError wraps an error with frame context
func WrapFrameError(frame int, err error) error {
	if err == nil {
		return nil
	}
	return &FrameError{
		Frame: frame,
		Err:   err,
	}
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// ExitCode maps an error to the process exit status.
// nil -> ExitSuccess, configuration errors -> ExitConfig,
// everything else -> ExitFailure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsConfigError(err):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
