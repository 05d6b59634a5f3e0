package search

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// WriteDot writes the explored part of the tree, down to maxDepth plies,
// as a graphviz digraph. Nodes the search never scored are drawn dashed.
func (t *Tree) WriteDot(w io.Writer, maxDepth int) error {
	var decls, edges []string
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if t.Depth(id) >= maxDepth || !t.nodes[id].expanded {
			return
		}
		for _, child := range t.nodes[id].children {
			style := ""
			val := "?"
			if v, ok := t.Value(child); ok {
				val = formatValue(v)
			} else {
				style = ", style=dashed"
			}
			decls = append(decls, fmt.Sprintf("n%d [label=\"%v\\nV: %s\"%s];",
				child, t.Move(child), val, style))
			edges = append(edges, fmt.Sprintf("n%d -> n%d;", id, child))
			walk(child)
		}
	}
	walk(t.Root())

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	fmt.Fprintf(&sb, " n%d [label=\"(root)\\n%v\"];\n", t.Root(), t.State(t.Root()).Hooks)
	for _, d := range decls {
		fmt.Fprintf(&sb, " %s\n", d)
	}
	sb.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&sb, " %s\n", e)
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.4g", v)
}
