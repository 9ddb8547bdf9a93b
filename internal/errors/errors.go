// Package errors provides centralized error definitions and error handling
// utilities for sortscope. It defines the sentinel errors of the instrumented
// sort core, typed errors carrying the offending index, radix or value, and
// classification helpers.
//
// # Error Types
//
// Core errors map onto the failure taxonomy of the sort core:
//   - IndexError: an array access outside [0, length)
//   - RadixError: a radix below 2 handed to the sort engine
//   - InputError: a value the engine cannot bucket (negative or blank)
//   - TaskError: the background producer failed or panicked
//
// Every typed error unwraps to its sentinel so callers can match either way:
//
//	if errors.Is(err, errors.ErrIndexOutOfRange) { ... }
//
//	var idxErr *errors.IndexError
//	if errors.As(err, &idxErr) {
//	    fmt.Println(idxErr.Index, idxErr.Length)
//	}
//
// Contention on the event channel is not an error: the producer waits for
// the gate and never escalates.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Core sentinel errors
var (
	// ErrIndexOutOfRange indicates an array access outside [0, length).
	ErrIndexOutOfRange = New("index out of range")
	// ErrInvalidRadix indicates a radix below 2.
	ErrInvalidRadix = New("invalid radix")
	// ErrInvalidInput indicates a value the sort engine cannot handle.
	ErrInvalidInput = New("invalid input")
)

// Channel and task sentinel errors
var (
	// ErrProducerClaimed indicates a second producer tried to attach to a channel.
	ErrProducerClaimed = New("channel producer already claimed")
	// ErrTaskPanicked indicates the background producer task panicked.
	ErrTaskPanicked = New("producer task panicked")
	// ErrNotStarted indicates an operation that requires a started session.
	ErrNotStarted = New("session not started")
	// ErrAlreadyStarted indicates a session was started twice.
	ErrAlreadyStarted = New("session already started")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// SortscopeError is the interface shared by all typed errors in this package.
type SortscopeError interface {
	error
	Unwrap() error
	Severity() Severity
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	cause      error
	severity   Severity
	userFacing bool
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Core Errors
// -----------------------------------------------------------------------------

// IndexError reports an access outside the bounds of an instrumented array.
//
// Example:
//
//	err := errors.NewIndexError("get", 8, 8)
//	fmt.Println(err) // "get index 8 out of range [0, 8)"
type IndexError struct {
	baseError
	Op     string
	Index  int
	Length int
}

// NewIndexError creates a new IndexError.
func NewIndexError(op string, index, length int) *IndexError {
	return &IndexError{
		baseError: baseError{
			cause:      ErrIndexOutOfRange,
			severity:   SeverityError,
			userFacing: true,
		},
		Op:     op,
		Index:  index,
		Length: length,
	}
}

// Error returns the formatted error message.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Op, e.Index, e.Length)
}

// RadixError reports a radix the engine cannot sort with.
type RadixError struct {
	baseError
	Radix int
}

// NewRadixError creates a new RadixError.
func NewRadixError(radix int) *RadixError {
	return &RadixError{
		baseError: baseError{
			cause:      ErrInvalidRadix,
			severity:   SeverityError,
			userFacing: true,
		},
		Radix: radix,
	}
}

// Error returns the formatted error message.
func (e *RadixError) Error() string {
	return fmt.Sprintf("invalid radix %d: must be at least 2", e.Radix)
}

// InputError reports an element the engine refuses to sort.
//
// Example:
//
//	err := errors.NewInputError(3, -7, "negative value")
//	fmt.Println(err) // "invalid input at index 3 (value -7): negative value"
type InputError struct {
	baseError
	Index  int
	Value  int
	Reason string
}

// NewInputError creates a new InputError.
func NewInputError(index, value int, reason string) *InputError {
	return &InputError{
		baseError: baseError{
			cause:      ErrInvalidInput,
			severity:   SeverityError,
			userFacing: true,
		},
		Index:  index,
		Value:  value,
		Reason: reason,
	}
}

// Error returns the formatted error message.
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input at index %d (value %d): %s", e.Index, e.Value, e.Reason)
}

// TaskError wraps a failure of the background producer task.
type TaskError struct {
	baseError
	RunID string
}

// NewTaskError creates a new TaskError.
func NewTaskError(cause error) *TaskError {
	return &TaskError{
		baseError: baseError{
			cause:      cause,
			severity:   SeverityCritical,
			userFacing: false,
		},
	}
}

// WithRunID adds a run ID to the error context.
func (e *TaskError) WithRunID(id string) *TaskError {
	e.RunID = id
	return e
}

// Error returns the formatted error message.
func (e *TaskError) Error() string {
	prefix := "producer task failed"
	if e.RunID != "" {
		prefix = fmt.Sprintf("producer task failed [run=%s]", e.RunID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
// Core errors describing bad input are user facing; task failures wrapping a
// panic are not.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var taskErr *TaskError
	if As(err, &taskErr) {
		return Is(err, ErrInvalidRadix) || Is(err, ErrInvalidInput) || Is(err, ErrIndexOutOfRange)
	}

	var typed SortscopeError
	if As(err, &typed) {
		return typed.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement SortscopeError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var typed SortscopeError
	if As(err, &typed) {
		return typed.Severity()
	}
	return SeverityError
}

// UserMessage returns the text to show end users for err. Typed errors that
// are not user facing, such as a panic in the producer task, are replaced by
// their severity and a pointer to the log, where the full error is recorded.
// Untyped errors (flag parsing, configuration) are shown as they are.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var typed SortscopeError
	if !As(err, &typed) || IsUserFacing(err) {
		return err.Error()
	}

	msg := fmt.Sprintf("%s: internal failure", GetSeverity(err))
	var taskErr *TaskError
	if As(err, &taskErr) && taskErr.RunID != "" {
		msg += fmt.Sprintf(" in run %s", taskErr.RunID)
	}
	return msg + ", see the log for details"
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
