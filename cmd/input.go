// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	rillerrors "rill/internal/errors"
	"rill/internal/ir"
	"rill/internal/parser"
)

// loadInput reads the program named by args, or stdin when no file is
// given. Files ending in .json and stdin carry the JSON form; anything
// else is parsed as text.
func loadInput(args []string) (*ir.Program, error) {
	if len(args) == 0 {
		prog, err := ir.LoadProgram(os.Stdin)
		if err != nil {
			color.Red("%s", err)
			return nil, err
		}
		return prog, nil
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		return nil, err
	}

	if strings.HasSuffix(path, ".json") {
		prog, err := ir.LoadProgram(strings.NewReader(string(source)))
		if err != nil {
			color.Red("%s", err)
			return nil, err
		}
		return prog, nil
	}

	prog, err := parser.ParseSource(path, string(source))
	if err != nil {
		reportParseError(path, string(source), err)
		return nil, err
	}
	return prog, nil
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(path, src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("%s", err)
		return
	}

	reporter := rillerrors.NewErrorReporter(path, src)
	pos := pe.Position()
	diag := &rillerrors.CompilerError{
		Level:    rillerrors.Error,
		Code:     rillerrors.ErrorParseFailed,
		Message:  pe.Message(),
		Position: &ir.Position{Row: pos.Line, Col: pos.Column},
	}
	fmt.Fprint(os.Stderr, reporter.FormatError(diag))
}
