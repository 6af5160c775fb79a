package errors

import (
	"fmt"

	"rill/internal/ir"
)

// Level represents the severity of a diagnostic
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// CompilerError is a structured diagnostic with a stable code and an
// optional source position.
type CompilerError struct {
	Level    Level
	Code     string // Error code like E0100
	Message  string
	Position *ir.Position // nil when the error has no source location
}

func (e *CompilerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Level, e.Message)
}

// Newf builds an error-level diagnostic.
func Newf(code string, format string, args ...interface{}) *CompilerError {
	return &CompilerError{
		Level:   Error,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewMalformedBlock reports a basic block that breaks the partition
// invariants.
func NewMalformedBlock(detail string) *CompilerError {
	return Newf(ErrorMalformedBlock, "malformed basic block: %s", detail)
}

// NewUndefinedVariable reports a use of a variable with no prior
// definition.
func NewUndefinedVariable(name string) *CompilerError {
	return Newf(ErrorUndefinedVariable, "use of undefined variable '%s'", name)
}
