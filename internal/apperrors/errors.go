// Package apperrors provides the error taxonomy shared by the Jenkins engine
// and the API layer: parameter-tagged validation errors and operation-level
// business errors, classified via errors.Is().
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification via errors.Is().
var (
	// ErrValidation marks a user-correctable input failure (bad URL, rejected
	// credentials, missing job). Never retried automatically.
	ErrValidation = errors.New("validation error")

	// ErrBusiness marks an operation failure against otherwise valid inputs
	// (build trigger, job creation, remote delete). Fatal for the call.
	ErrBusiness = errors.New("business error")
)

// Error carries the classified failure.
type Error struct {
	Sentinel  error  // Wrapped sentinel for errors.Is() classification
	Message   string // Human-readable message
	Parameter string // Parameter key the failure is attached to (validation only)
	Reason    string // Machine-readable reason code (validation only)
	Op        string // Operation that failed (business only)
	Cause     error  // Underlying error, if any
}

// Error returns the human-readable error message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() classification.
func (e *Error) Unwrap() error {
	return e.Sentinel
}

// Validation creates a validation error attached to a parameter key with a
// machine-readable reason code.
func Validation(parameter, reason string) error {
	return &Error{
		Sentinel:  ErrValidation,
		Message:   fmt.Sprintf("%s: %s", parameter, reason),
		Parameter: parameter,
		Reason:    reason,
	}
}

// Business creates a business error for a failed operation wrapping its cause.
func Business(op string, cause error) error {
	msg := fmt.Sprintf("%s failed", op)
	if cause != nil {
		msg = fmt.Sprintf("%s failed: %v", op, cause)
	}
	return &Error{
		Sentinel: ErrBusiness,
		Message:  msg,
		Op:       op,
		Cause:    cause,
	}
}

// AsError returns the structured error behind err, or nil when err carries no
// classification.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
