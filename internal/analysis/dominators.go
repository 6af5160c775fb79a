package analysis

import (
	"sort"

	"rill/internal/cfg"
	"rill/internal/graph"
	"rill/internal/ir"
)

// Dominators maps each block to its set of dominators:
// dom(b) = {b} ∪ ⋂ dom(p) over predecessors p. Iteration runs in
// reverse postorder until the whole map is stable. Blocks unreachable
// from entry get an empty set, so no dominance facts are derived for
// them.
func Dominators(f *ir.Function) map[string]graph.Set {
	if len(f.Instrs) == 0 {
		return map[string]graph.Set{}
	}
	successors := cfg.Successors(f)
	predecessors := graph.Invert(successors)
	rpo := graph.ReversePostorder(successors, cfg.EntryName)

	reachable := graph.Set{}
	for _, b := range rpo {
		reachable[b] = true
	}

	dom := make(map[string]graph.Set, len(successors))
	for b := range successors {
		if !reachable[b] {
			dom[b] = graph.Set{}
			continue
		}
		universe := graph.Set{}
		for _, n := range rpo {
			universe[n] = true
		}
		dom[b] = universe
	}

	for changed := true; changed; {
		changed = false
		for _, b := range rpo {
			update := meetPredecessors(b, predecessors[b], dom, reachable)
			update[b] = true
			if !setsEqual(update, dom[b]) {
				dom[b] = update
				changed = true
			}
		}
	}
	return dom
}

func meetPredecessors(b string, preds []string, dom map[string]graph.Set, reachable graph.Set) graph.Set {
	var meet graph.Set
	for _, p := range preds {
		if !reachable[p] {
			continue
		}
		if meet == nil {
			meet = graph.Set{}
			for d := range dom[p] {
				meet[d] = true
			}
			continue
		}
		for d := range meet {
			if !dom[p][d] {
				delete(meet, d)
			}
		}
	}
	if meet == nil {
		return graph.Set{}
	}
	return meet
}

// DominanceFrontier maps each block d to the set of blocks n where d's
// dominance ends: d dominates some predecessor of n but does not
// strictly dominate n itself.
func DominanceFrontier(f *ir.Function) map[string]graph.Set {
	if len(f.Instrs) == 0 {
		return map[string]graph.Set{}
	}
	successors := cfg.Successors(f)
	predecessors := graph.Invert(successors)
	dominates := graph.InvertSets(Dominators(f))

	frontier := make(map[string]graph.Set, len(successors))
	for d := range successors {
		frontier[d] = graph.Set{}
		for n := range successors {
			if dominates[d][n] && d != n {
				continue // d strictly dominates n
			}
			for _, p := range predecessors[n] {
				if dominates[d][p] {
					frontier[d][n] = true
					break
				}
			}
		}
	}
	return frontier
}

// DominatorTree returns the immediate-dominator tree as a map from each
// block to its ordered list of children. The immediate dominator of n
// is its strict dominator that every other strict dominator of n also
// dominates. Unreachable blocks have no parent and no children.
func DominatorTree(f *ir.Function) map[string][]string {
	dom := Dominators(f)

	tree := make(map[string][]string, len(dom))
	for b := range dom {
		tree[b] = nil
	}
	for n, doms := range dom {
		if n == cfg.EntryName || len(doms) == 0 {
			continue
		}
		idom := ""
		for d := range doms {
			if d == n {
				continue
			}
			if idom == "" || len(dom[d]) > len(dom[idom]) {
				idom = d
			}
		}
		if idom != "" {
			tree[idom] = append(tree[idom], n)
		}
	}
	for b := range tree {
		sort.Strings(tree[b])
	}
	return tree
}

func setsEqual(a, b graph.Set) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
