package compiler

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// CompileError reports a structural problem while turning a CUE value into
// IR. It carries the CUE source position when one is available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation error codes (E100-E199).
const (
	ErrProgramNameEmpty   = "E101" // program name is required
	ErrInvalidCoordinate  = "E102" // coordinate outside declared bounds
	ErrInvalidFieldType   = "E103" // unsupported field type string
	ErrDuplicateName      = "E104" // duplicate process or event name
	ErrFloatForbidden     = "E105" // float constants are forbidden
	ErrNegativeResource   = "E106" // negative resource bound
	ErrUnknownEventType   = "E107" // transition references undeclared event
	ErrUnknownUpdateField = "E108" // transition updates undeclared field
)

// ValidationError is one schema violation found in a loaded program.
// Validation collects all violations rather than failing fast.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}
