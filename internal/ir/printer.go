package ir

import (
	"fmt"
	"strings"
)

// Printer renders a program in the text form accepted by the parser.
type Printer struct {
	out strings.Builder
}

// NewPrinter creates a printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// PrintProgram returns the text rendering of a program.
func PrintProgram(p *Program) string {
	pr := NewPrinter()
	for i, f := range p.Functions {
		if i > 0 {
			pr.out.WriteString("\n")
		}
		pr.printFunction(f)
	}
	return pr.out.String()
}

// PrintFunction returns the text rendering of a single function.
func PrintFunction(f *Function) string {
	pr := NewPrinter()
	pr.printFunction(f)
	return pr.out.String()
}

func (pr *Printer) printFunction(f *Function) {
	pr.out.WriteString("@")
	pr.out.WriteString(f.Name)
	if len(f.Args) > 0 {
		parts := make([]string, len(f.Args))
		for i, a := range f.Args {
			parts[i] = fmt.Sprintf("%s: %s", a.Name, a.Type)
		}
		pr.out.WriteString("(" + strings.Join(parts, ", ") + ")")
	}
	if f.ReturnType != "" {
		pr.out.WriteString(": " + string(f.ReturnType))
	}
	pr.out.WriteString(" {\n")
	for _, c := range f.Instrs {
		if _, ok := c.(*Label); ok {
			pr.out.WriteString(c.String())
		} else {
			pr.out.WriteString("  " + c.String())
		}
		pr.out.WriteString("\n")
	}
	pr.out.WriteString("}\n")
}

func (f *Function) String() string { return PrintFunction(f) }
func (p *Program) String() string  { return PrintProgram(p) }
