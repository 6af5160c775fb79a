package opt

import (
	"fmt"

	"github.com/tliron/commonlog"

	"rill/internal/ir"
)

// Pass is a single function-level transformation. Apply takes an
// immutable input and returns a new function.
type Pass interface {
	Name() string
	Description() string
	Apply(f *ir.Function) (*ir.Function, error)
}

// Pipeline sequences passes over every function of a program.
type Pipeline struct {
	passes []Pass
	log    commonlog.Logger
}

// NewPipeline creates a pipeline running the given passes in order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{
		passes: passes,
		log:    commonlog.GetLogger("opt"),
	}
}

// AddPass appends a pass to the pipeline.
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Run applies the pipeline to each function and returns the optimized
// program. The input program is not modified.
func (p *Pipeline) Run(prog *ir.Program) (*ir.Program, error) {
	out := &ir.Program{Functions: make([]*ir.Function, 0, len(prog.Functions))}
	for _, f := range prog.Functions {
		current := f
		for _, pass := range p.passes {
			p.log.Debugf("%s: @%s", pass.Name(), current.Name)
			next, err := pass.Apply(current)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pass.Name(), err)
			}
			current = next
		}
		out.Functions = append(out.Functions, current)
	}
	return out, nil
}

// OptPipeline is value numbering without folding, then dead-variable
// and dead-store elimination.
func OptPipeline() *Pipeline {
	return NewPipeline(ValueNumbering{}, DeadVariableElim{}, DeadStoreElim{})
}

// FoldPipeline is value numbering with constant folding alone.
func FoldPipeline() *Pipeline {
	return NewPipeline(ValueNumbering{Fold: true})
}

// FoldOptPipeline is folding value numbering followed by the dead-code
// passes.
func FoldOptPipeline() *Pipeline {
	return NewPipeline(ValueNumbering{Fold: true}, DeadVariableElim{}, DeadStoreElim{})
}
