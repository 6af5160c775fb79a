package cfg

import (
	"rill/internal/graph"
	"rill/internal/ir"
)

// EntryName and ExitName are the synthetic blocks the expanded CFG
// wraps around a function's real blocks.
const (
	EntryName = "entry"
	ExitName  = "exit"
)

// Expanded returns the function's blocks with a synthetic entry block
// prepended and a synthetic exit block appended, each holding only its
// label. Analyses run over the expanded list so every function has a
// unique entry and exit regardless of its return structure.
func Expanded(f *ir.Function) []BasicBlock {
	blocks := Partition(f)
	out := make([]BasicBlock, 0, len(blocks)+2)
	out = append(out, BasicBlock{&ir.Label{Name: EntryName}})
	out = append(out, blocks...)
	out = append(out, BasicBlock{&ir.Label{Name: ExitName}})
	return out
}

// Names returns the block names of the expanded blocks, in order.
func Names(f *ir.Function) []string {
	blocks := Expanded(f)
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = BlockName(b, i, f.Name)
	}
	return names
}

// NameToIndex maps each expanded block name to its index.
func NameToIndex(f *ir.Function) map[string]int {
	blocks := Expanded(f)
	idx := make(map[string]int, len(blocks))
	for i, b := range blocks {
		idx[BlockName(b, i, f.Name)] = i
	}
	return idx
}

// Successors builds the control-flow graph over the expanded blocks. A
// trailing jump or branch transfers to its labels in order; a return
// transfers to the synthetic exit; anything else falls through to the
// next block in source order. The exit block has no successors.
func Successors(f *ir.Function) graph.Graph {
	blocks := Expanded(f)
	cfg := make(graph.Graph, len(blocks))

	for i := 0; i < len(blocks)-1; i++ {
		b := blocks[i]
		from := BlockName(b, i, f.Name)
		last := b[len(b)-1]

		if e, ok := last.(*ir.Effect); ok {
			switch e.Op {
			case ir.Jump, ir.Branch:
				cfg[from] = append([]string(nil), e.Labels...)
				continue
			case ir.Return:
				cfg[from] = []string{ExitName}
				continue
			}
		}
		cfg[from] = []string{BlockName(blocks[i+1], i+1, f.Name)}
	}
	last := len(blocks) - 1
	cfg[BlockName(blocks[last], last, f.Name)] = nil
	return cfg
}
