// Package vm provides error handling for script instances.
package vm

import (
	"fmt"

	"github.com/zurustar/varholder/pkg/value"
)

// ErrorType represents the type of runtime error.
type ErrorType string

const (
	// Fatal errors - the instance cannot run
	ErrorInvalidDefinition ErrorType = "INVALID_DEFINITION"

	// Non-fatal errors - execution continues
	ErrorUndefinedVar ErrorType = "UNDEFINED_VARIABLE"
	ErrorTypeMismatch ErrorType = "TYPE_MISMATCH"
	ErrorInvalidState ErrorType = "INVALID_STATE"
)

// RuntimeError represents a runtime error raised while an instance
// reads or writes its variables.
type RuntimeError struct {
	Type    ErrorType
	Message string
	Script  string // Script name if available
	Err     error  // Underlying cause, if any
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Script != "" {
		return fmt.Sprintf("[%s] %s in %s", e.Type, e.Message, e.Script)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error is fatal and the instance cannot continue.
func (e *RuntimeError) IsFatal() bool {
	switch e.Type {
	case ErrorInvalidDefinition:
		return true
	default:
		return false
	}
}

// NewRuntimeError creates a new RuntimeError.
func NewRuntimeError(errType ErrorType, message string) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
	}
}

// NewRuntimeErrorWithScript creates a new RuntimeError tagged with a script name.
func NewRuntimeErrorWithScript(errType ErrorType, message, script string) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
		Script:  script,
	}
}

// NewUndefinedVariableError creates an undefined variable error.
func NewUndefinedVariableError(name, script string) *RuntimeError {
	return NewRuntimeErrorWithScript(ErrorUndefinedVar, fmt.Sprintf("undefined variable: %s", name), script)
}

// NewTypeMismatchError creates an error for a write of the wrong kind.
func NewTypeMismatchError(name string, have, got value.Kind, script string) *RuntimeError {
	return NewRuntimeErrorWithScript(ErrorTypeMismatch,
		fmt.Sprintf("cannot assign %s to %s variable %s", got, have, name), script)
}

// NewInvalidDefinitionError wraps a definition validation failure.
func NewInvalidDefinitionError(script string, err error) *RuntimeError {
	return &RuntimeError{
		Type:    ErrorInvalidDefinition,
		Message: fmt.Sprintf("invalid definition: %v", err),
		Script:  script,
		Err:     err,
	}
}
