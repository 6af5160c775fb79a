// Package opt holds the function-level transformation passes and the
// pipeline that sequences them over a program.
package opt

import (
	"rill/internal/cfg"
	"rill/internal/ir"
	"rill/internal/lvn"
)

// DeadVariableElim drops every constant and value instruction whose
// destination is never read anywhere in the function, iterating to a
// fixpoint. Effects and labels are never dropped.
type DeadVariableElim struct{}

func (DeadVariableElim) Name() string { return "dead-variable-elimination" }

func (DeadVariableElim) Description() string {
	return "Removes definitions whose destinations are never used"
}

func (DeadVariableElim) Apply(f *ir.Function) (*ir.Function, error) {
	last := f
	for {
		used := map[string]bool{}
		for _, instr := range last.Instrs {
			for _, arg := range ir.Args(instr) {
				used[arg] = true
			}
		}

		next := last.Clone()
		next.Instrs = nil
		for _, instr := range last.Instrs {
			if dest, ok := ir.Dest(instr); ok && !used[dest] {
				continue
			}
			next.Instrs = append(next.Instrs, instr)
		}

		if next.Equal(last) {
			return last, nil
		}
		last = next
	}
}

// DeadStoreElim removes stores that are overwritten within the same
// basic block before any use, iterating each block to a fixpoint.
type DeadStoreElim struct{}

func (DeadStoreElim) Name() string { return "dead-store-elimination" }

func (DeadStoreElim) Description() string {
	return "Removes block-local stores overwritten before any use"
}

func (DeadStoreElim) Apply(f *ir.Function) (*ir.Function, error) {
	out := f.Clone()
	out.Instrs = nil
	for _, block := range cfg.Partition(f) {
		out.Instrs = append(out.Instrs, deadStoreBlock(block)...)
	}
	return out, nil
}

func deadStoreBlock(b cfg.BasicBlock) cfg.BasicBlock {
	last := b
	for {
		dead := map[int]bool{}
		unusedDefs := map[string]int{}
		for i, instr := range last {
			for _, arg := range ir.Args(instr) {
				delete(unusedDefs, arg)
			}
			if dest, ok := ir.Dest(instr); ok {
				if prior, exists := unusedDefs[dest]; exists {
					dead[prior] = true
				}
				unusedDefs[dest] = i
			}
		}
		if len(dead) == 0 {
			return last
		}
		next := make(cfg.BasicBlock, 0, len(last)-len(dead))
		for i, instr := range last {
			if !dead[i] {
				next = append(next, instr)
			}
		}
		last = next
	}
}

// ValueNumbering runs local value numbering over every block, with
// constant folding when Fold is set.
type ValueNumbering struct {
	Fold bool
}

func (p ValueNumbering) Name() string {
	if p.Fold {
		return "value-numbering-fold"
	}
	return "value-numbering"
}

func (p ValueNumbering) Description() string {
	if p.Fold {
		return "Local value numbering with constant folding"
	}
	return "Local value numbering with copy propagation"
}

func (p ValueNumbering) Apply(f *ir.Function) (*ir.Function, error) {
	return lvn.RewriteFunction(f, p.Fold)
}
