package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/ascend/internal/logger"
)

var (
	// ErrDuplicateCompletion is returned when a habit was already completed on the given day.
	// It is recoverable and leaves state untouched.
	ErrDuplicateCompletion = errors.New("habit already completed today")
	// ErrInvalidState is returned when an operation does not apply to the current
	// state of a goal or habit (locked habit, inactive goal, missing progress record).
	ErrInvalidState = errors.New("invalid state")
	// ErrMalformedRecurrence is returned when a recurrence specification cannot be expanded.
	ErrMalformedRecurrence = errors.New("malformed recurrence")
	// ErrNotFound is returned by storage when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidState wraps ErrInvalidState with a description.
func InvalidState(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// MalformedRecurrence wraps ErrMalformedRecurrence with a description.
func MalformedRecurrence(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecurrence, fmt.Sprintf(format, args...))
}

// IsUserFacing reports whether err is an expected, recoverable condition that
// should be shown to the user without being logged as a failure.
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrDuplicateCompletion) || errors.Is(err, ErrMalformedRecurrence)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		if !IsUserFacing(err) {
			logger.Error("Command execution failed", "error", err)
		}
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
