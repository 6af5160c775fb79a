// Package parser reads the text form of the IR. The JSON form is
// handled by the ir package directly; this package covers the
// human-readable rendering the printer emits.
package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"rill/internal/errors"
	"rill/internal/ir"
)

var irParser = participle.MustBuild[astProgram](
	participle.Lexer(irLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseSource parses a program in text form.
func ParseSource(filename, source string) (*ir.Program, error) {
	ast, err := irParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return convert(ast)
}

func convert(ast *astProgram) (*ir.Program, error) {
	prog := &ir.Program{}
	for _, fn := range ast.Functions {
		f := &ir.Function{
			Name:       strings.TrimPrefix(fn.Name, "@"),
			ReturnType: ir.Type(fn.Return),
			Position:   position(fn.Pos),
		}
		for _, p := range fn.Params {
			f.Args = append(f.Args, ir.Argument{Name: p.Name, Type: ir.Type(p.Type)})
		}
		for _, line := range fn.Body {
			code, err := convertLine(line)
			if err != nil {
				return nil, err
			}
			f.Instrs = append(f.Instrs, code)
		}
		prog.Functions = append(prog.Functions, f)
	}
	return prog, nil
}

func convertLine(line *astLine) (ir.Code, error) {
	switch {
	case line.Label != nil:
		return &ir.Label{
			Name:     strings.TrimPrefix(line.Label.Name, "."),
			Position: position(line.Label.Pos),
		}, nil
	case line.Assign != nil:
		return convertAssign(line.Assign)
	case line.Effect != nil:
		return &ir.Effect{
			Op:       ir.EffectOp(line.Effect.Op),
			Args:     line.Effect.Args,
			Funcs:    trimFuncs(line.Effect.Funcs),
			Labels:   trimLabels(line.Effect.Labels),
			Position: position(line.Effect.Pos),
		}, nil
	}
	return nil, errors.Newf(errors.ErrorParseFailed, "empty line")
}

func convertAssign(a *astAssign) (ir.Code, error) {
	if a.Const != nil {
		lit, err := convertLiteral(a.Const.Value)
		if err != nil {
			return nil, err
		}
		return &ir.Constant{
			Dest:     a.Dest,
			Type:     ir.Type(a.Type),
			Value:    lit,
			Position: position(a.Pos),
		}, nil
	}
	return &ir.Value{
		Op:       ir.ValueOp(a.Op.Op),
		Dest:     a.Dest,
		Type:     ir.Type(a.Type),
		Args:     a.Op.Args,
		Funcs:    trimFuncs(a.Op.Funcs),
		Labels:   trimLabels(a.Op.Labels),
		Position: position(a.Pos),
	}, nil
}

func convertLiteral(lit astLiteral) (ir.Literal, error) {
	switch {
	case lit.Bool != nil:
		return ir.NewBool(*lit.Bool == "true"), nil
	case lit.Int != nil:
		return ir.NewInt(*lit.Int), nil
	}
	return ir.Literal{}, errors.Newf(errors.ErrorMalformedLiteral, "literal is neither an integer nor a boolean")
}

func trimFuncs(funcs []string) []string {
	out := make([]string, len(funcs))
	for i, f := range funcs {
		out[i] = strings.TrimPrefix(f, "@")
	}
	return out
}

func trimLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.TrimPrefix(l, ".")
	}
	return out
}

func position(pos lexer.Position) *ir.Position {
	return &ir.Position{Row: pos.Line, Col: pos.Column}
}
