package cfg

import (
	"fmt"
	"strings"

	"rill/internal/graph"
	"rill/internal/ir"
)

// Dot renders the function's control-flow graph in Graphviz form. Keys
// are emitted in sorted order so the output is reproducible.
func Dot(f *ir.Function) string {
	var s strings.Builder
	fmt.Fprintf(&s, "digraph %s {\n", f.Name)
	cfg := Successors(f)

	keys := graph.SortedKeys(cfg)
	for _, key := range keys {
		fmt.Fprintf(&s, "  %s;\n", key)
	}
	for _, key := range keys {
		for _, succ := range cfg[key] {
			fmt.Fprintf(&s, "  %s -> %s;\n", key, succ)
		}
	}
	s.WriteString("}")
	return s.String()
}
