package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorReporter renders diagnostics against a source file with
// caret markers, in the style of mainstream compiler output.
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a reporter for a file's source text.
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError formats a diagnostic, including the offending source line
// and a caret when the error carries a position.
func (er *ErrorReporter) FormatError(err *CompilerError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	if err.Position == nil {
		return result.String()
	}

	row, col := err.Position.Row, err.Position.Col
	result.WriteString(fmt.Sprintf("  %s %s:%d:%d\n", dim("-->"), er.filename, row, col))

	if row > 0 && row <= len(er.lines) {
		line := er.lines[row-1]
		result.WriteString(fmt.Sprintf("  %s %s\n", dim("│"), line))
		if col > 0 && col <= len(line)+1 {
			caret := strings.Repeat(" ", col-1) + "^"
			result.WriteString(fmt.Sprintf("  %s %s\n", dim("│"), levelColor(caret)))
		}
	}

	return result.String()
}

func (er *ErrorReporter) getLevelColor(level Level) func(a ...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgBlue).SprintFunc()
	}
}
