// Package analysis implements the dataflow and dominance analyses the
// transformation passes consume: reaching definitions, dominators, the
// dominance frontier, and the dominator tree.
package analysis

import (
	"fmt"

	"rill/internal/cfg"
	"rill/internal/graph"
	"rill/internal/ir"
)

// Definition identifies one definition site: a variable name, the block
// that defines it, and the line index within that block. Identity is
// structural, so definitions are usable as set members.
type Definition struct {
	Name  string
	Block string
	Line  int
}

func (d Definition) String() string {
	return fmt.Sprintf("%s_%s_%d", d.Name, d.Block, d.Line)
}

// DefSet is a set of definitions.
type DefSet map[Definition]bool

// InOut holds the reaching-definition sets at block entry and exit.
type InOut struct {
	In  DefSet
	Out DefSet
}

// ReachingDefinitions runs the forward may-analysis over the expanded
// CFG. OUT[b] = GEN[b] ∪ (IN[b] − KILL[b]); the meet over predecessors
// is set union. The worklist starts with every block and terminates
// because the transfer is monotone over a finite powerset.
func ReachingDefinitions(f *ir.Function) map[string]InOut {
	if len(f.Instrs) == 0 {
		return map[string]InOut{}
	}
	successors := cfg.Successors(f)
	predecessors := graph.Invert(successors)
	blocks := cfg.Expanded(f)
	nameToIdx := cfg.NameToIndex(f)
	blockNames := cfg.Names(f)

	transfer := func(b string, input DefSet) DefSet {
		block := blocks[nameToIdx[b]]
		gen := DefSet{}
		surviving := DefSet{}
		for d := range input {
			surviving[d] = true
		}

		for line, instr := range block {
			dest, ok := ir.Dest(instr)
			if !ok {
				continue
			}
			for d := range surviving {
				if d.Name == dest {
					delete(surviving, d)
				}
			}
			for d := range gen {
				if d.Name == dest {
					delete(gen, d)
				}
			}
			gen[Definition{Name: dest, Block: b, Line: line}] = true
		}

		out := DefSet{}
		for d := range gen {
			out[d] = true
		}
		for d := range surviving {
			out[d] = true
		}
		return out
	}

	inputs := map[string]DefSet{cfg.EntryName: {}}
	outputs := make(map[string]DefSet, len(blockNames))
	for _, name := range blockNames {
		outputs[name] = DefSet{}
	}

	worklist := append([]string(nil), blockNames...)
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		merged := DefSet{}
		for _, p := range predecessors[b] {
			for d := range outputs[p] {
				merged[d] = true
			}
		}
		inputs[b] = merged

		newOut := transfer(b, merged)
		if !defSetsEqual(newOut, outputs[b]) {
			outputs[b] = newOut
			worklist = append(worklist, successors[b]...)
		}
	}

	result := make(map[string]InOut, len(blockNames))
	for _, name := range blockNames {
		result[name] = InOut{In: inputs[name], Out: outputs[name]}
	}
	return result
}

func defSetsEqual(a, b DefSet) bool {
	if len(a) != len(b) {
		return false
	}
	for d := range a {
		if !b[d] {
			return false
		}
	}
	return true
}
