package backend

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes backend failures.
type ErrorKind string

const (
	// KindValidation indicates a resource or bound violation: coordinate
	// out of range, process count over the declared maximum, or over the
	// kernel's fixed process table.
	KindValidation ErrorKind = "VALIDATION_ERROR"

	// KindCodegen indicates the emitter was given inconsistent inputs,
	// such as an empty placement when processes are expected.
	KindCodegen ErrorKind = "CODEGEN_FAILED"

	// KindRuntime wraps a failure surfaced by the execution engine.
	KindRuntime ErrorKind = "RUNTIME_ERROR"
)

// Error is the backend failure type. It carries the failing program name
// when known and the underlying error for KindRuntime.
type Error struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Message is a human-readable description naming the offending value.
	Message string

	// Program is the IR program name, when known.
	Program string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Program != "" {
		return fmt.Sprintf("%s: %s (program=%s)", e.Kind, e.Message, e.Program)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// NewValidationError creates a bound-violation error.
func NewValidationError(program, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Program: program, Message: fmt.Sprintf(format, args...)}
}

// NewCodegenError creates an emitter-input error.
func NewCodegenError(program, format string, args ...any) *Error {
	return &Error{Kind: KindCodegen, Program: program, Message: fmt.Sprintf(format, args...)}
}

// NewRuntimeError wraps an execution-engine failure.
func NewRuntimeError(message string, err error) *Error {
	return &Error{Kind: KindRuntime, Message: message, Err: err}
}

// IsValidationError reports whether err is a backend validation error.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool { return hasKind(err, KindValidation) }

// IsCodegenError reports whether err is an emitter-input error.
func IsCodegenError(err error) bool { return hasKind(err, KindCodegen) }

// IsRuntimeError reports whether err is an execution-engine error.
func IsRuntimeError(err error) bool { return hasKind(err, KindRuntime) }

func hasKind(err error, kind ErrorKind) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
