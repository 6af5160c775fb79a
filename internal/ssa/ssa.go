// Package ssa converts functions to static single assignment form:
// phi nodes are placed along the dominance frontier of every
// definition, then variables are renamed along a dominator-tree walk.
package ssa

import (
	"fmt"

	"rill/internal/analysis"
	"rill/internal/cfg"
	"rill/internal/errors"
	"rill/internal/graph"
	"rill/internal/ir"
)

// funcArgOrigin is the synthetic defining block recorded for formal
// arguments, so uses before any explicit definition still resolve.
const funcArgOrigin = "<func_arg>"

type nameDef struct {
	Block string
	Name  string
}

type converter struct {
	fn         *ir.Function
	blocks     []cfg.BasicBlock
	blockIdx   map[string]int
	successors graph.Graph
	domTree    map[string][]string

	origVars  map[string]bool
	varTypes  map[string]ir.Type
	phiOrigin map[*ir.Value]string

	stacks   map[string][]nameDef
	counters map[string]int
}

// Convert returns f rewritten into SSA form. Every variable is
// assigned exactly once; merges are reconciled with phi nodes carrying
// one (arg, label) pair per predecessor. A function with no blocks is
// returned unchanged.
func Convert(f *ir.Function) (*ir.Function, error) {
	if len(f.Instrs) == 0 {
		return f.Clone(), nil
	}

	work := f.Clone()
	c := &converter{
		fn:         work,
		blocks:     cfg.Expanded(work),
		blockIdx:   cfg.NameToIndex(work),
		successors: cfg.Successors(work),
		domTree:    analysis.DominatorTree(work),
		origVars:   map[string]bool{},
		varTypes:   map[string]ir.Type{},
		phiOrigin:  map[*ir.Value]string{},
		stacks:     map[string][]nameDef{},
		counters:   map[string]int{},
	}

	c.collectDefinitions()
	c.placePhis()
	if err := c.rename(); err != nil {
		return nil, fmt.Errorf("function @%s: %w", f.Name, err)
	}

	out := work
	out.Instrs = cfg.Flatten(c.blocks[1 : len(c.blocks)-1])
	return out, nil
}

// collectDefinitions gathers the original variable names, their
// declared types, and the rename-stack seeds. Formal arguments are
// seeded from the synthetic origin block.
func (c *converter) collectDefinitions() {
	for _, arg := range c.fn.Args {
		c.origVars[arg.Name] = true
		c.varTypes[arg.Name] = arg.Type
		c.stacks[arg.Name] = []nameDef{{Block: funcArgOrigin, Name: arg.Name}}
	}
	for i, block := range c.blocks {
		name := cfg.BlockName(block, i, c.fn.Name)
		for _, instr := range block {
			dest, ok := ir.Dest(instr)
			if !ok {
				continue
			}
			c.origVars[dest] = true
			if _, seen := c.varTypes[dest]; !seen {
				if typ, ok := ir.DestType(instr); ok {
					c.varTypes[dest] = typ
				}
			}
			if _, seen := c.stacks[dest]; !seen {
				c.stacks[dest] = []nameDef{{Block: name, Name: dest}}
			}
			if phi, ok := instr.(*ir.Value); ok && phi.Op == ir.Phi {
				c.phiOrigin[phi] = dest
			}
		}
	}
	for v := range c.origVars {
		c.counters[v] = 1
	}
}

// defBlocks returns, in block order, the names of blocks defining v.
func (c *converter) defBlocks(v string) []string {
	var defs []string
	seen := map[string]bool{}
	for i, block := range c.blocks {
		name := cfg.BlockName(block, i, c.fn.Name)
		for _, instr := range block {
			if dest, ok := ir.Dest(instr); ok && dest == v && !seen[name] {
				seen[name] = true
				defs = append(defs, name)
			}
		}
	}
	return defs
}

// placePhis inserts a phi for every variable at each block of the
// dominance frontier of its definitions, propagating to a fixpoint:
// an inserted phi is itself a new definition.
func (c *converter) placePhis() {
	frontier := analysis.DominanceFrontier(c.fn)

	vars := graph.SortedMembers(graph.Set(c.origVars))
	for _, v := range vars {
		hasPhi := map[string]bool{}
		for phi, orig := range c.phiOrigin {
			if orig == v {
				hasPhi[c.phiBlock(phi)] = true
			}
		}

		work := c.defBlocks(v)
		for len(work) > 0 {
			d := work[0]
			work = work[1:]
			for _, fb := range graph.SortedMembers(frontier[d]) {
				if hasPhi[fb] {
					continue
				}
				if !c.insertPhi(v, fb) {
					continue
				}
				hasPhi[fb] = true
				work = append(work, fb)
			}
		}
	}
}

// insertPhi places v's phi at the top of the named block, after the
// leading label if there is one. Label-only synthetic blocks take no
// phis.
func (c *converter) insertPhi(v, blockName string) bool {
	idx, ok := c.blockIdx[blockName]
	if !ok {
		return false
	}
	block := c.blocks[idx]
	pos := 0
	if _, isLabel := block[0].(*ir.Label); isLabel {
		if len(block) < 2 {
			return false
		}
		pos = 1
	}

	phi := &ir.Value{Op: ir.Phi, Dest: v, Type: c.varTypes[v]}
	c.phiOrigin[phi] = v

	next := make(cfg.BasicBlock, 0, len(block)+1)
	next = append(next, block[:pos]...)
	next = append(next, phi)
	next = append(next, block[pos:]...)
	c.blocks[idx] = next
	return true
}

func (c *converter) phiBlock(phi *ir.Value) string {
	for i, block := range c.blocks {
		for _, instr := range block {
			if instr == ir.Code(phi) {
				return cfg.BlockName(block, i, c.fn.Name)
			}
		}
	}
	return ""
}

// rename walks the dominator tree from entry with an explicit stack,
// snapshotting the rename stacks on entry to each block and restoring
// them when its subtree is done.
func (c *converter) rename() error {
	type frame struct {
		block    string
		entered  bool
		snapshot map[string][]nameDef
	}
	stack := []frame{{block: cfg.EntryName}}

	for len(stack) > 0 {
		top := len(stack) - 1
		if stack[top].entered {
			c.restore(stack[top].snapshot)
			stack = stack[:top]
			continue
		}
		stack[top].entered = true
		stack[top].snapshot = c.snapshot()
		block := stack[top].block

		if err := c.renameBlock(block); err != nil {
			return err
		}
		c.fillSuccessorPhis(block)

		children := c.domTree[block]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{block: children[i]})
		}
	}
	return nil
}

func (c *converter) renameBlock(blockName string) error {
	block := c.blocks[c.blockIdx[blockName]]
	for _, instr := range block {
		phi, isPhi := instr.(*ir.Value)
		isPhi = isPhi && phi.Op == ir.Phi

		// Phi arguments are filled in by predecessors, never here.
		if !isPhi {
			args := ir.Args(instr)
			for i, arg := range args {
				st, ok := c.stacks[arg]
				if !ok || len(st) == 0 {
					return errors.NewUndefinedVariable(arg)
				}
				args[i] = st[len(st)-1].Name
			}
		}

		switch i := instr.(type) {
		case *ir.Constant:
			i.Dest = c.freshName(i.Dest, blockName)
		case *ir.Value:
			i.Dest = c.freshName(i.Dest, blockName)
		}
	}
	return nil
}

// freshName mints the next SSA name for orig, pushes it onto the
// rename stack, and returns it.
func (c *converter) freshName(orig, blockName string) string {
	name := fmt.Sprintf("%s.%d", orig, c.counters[orig])
	for c.origVars[name] {
		name += "_"
	}
	c.stacks[orig] = append(c.stacks[orig], nameDef{Block: blockName, Name: name})
	c.counters[orig]++
	return name
}

// fillSuccessorPhis appends this block's top-of-stack name and this
// block's name to every phi in every CFG successor.
func (c *converter) fillSuccessorPhis(blockName string) {
	for _, succ := range c.successors[blockName] {
		idx, ok := c.blockIdx[succ]
		if !ok {
			continue
		}
		for _, instr := range c.blocks[idx] {
			phi, isPhi := instr.(*ir.Value)
			if !isPhi || phi.Op != ir.Phi {
				continue
			}
			orig := c.phiOrigin[phi]
			st := c.stacks[orig]
			if len(st) == 0 {
				continue
			}
			phi.Args = append(phi.Args, st[len(st)-1].Name)
			phi.Labels = append(phi.Labels, blockName)
		}
	}
}

func (c *converter) snapshot() map[string][]nameDef {
	snap := make(map[string][]nameDef, len(c.stacks))
	for v, st := range c.stacks {
		snap[v] = append([]nameDef(nil), st...)
	}
	return snap
}

func (c *converter) restore(snap map[string][]nameDef) {
	c.stacks = make(map[string][]nameDef, len(snap))
	for v, st := range snap {
		c.stacks[v] = append([]nameDef(nil), st...)
	}
}
