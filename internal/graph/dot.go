package graph

import (
	"bytes"
	"fmt"
)

// ToDOT renders the installed graph in Graphviz DOT format
func (g *InstalledGraph) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph installed {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, g.dotAttrs(id))
	}

	buf.WriteString("\n")
	for _, id := range g.Nodes() {
		for _, to := range g.Successors(id) {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (g *InstalledGraph) dotAttrs(id NodeID) string {
	switch id {
	case g.Root:
		return `label="user", shape=ellipse`
	case g.Unresolved:
		return `label="missing dependency", style="rounded,dashed", color=red`
	}
	pv := g.Payload(id)
	label := pv.String()
	if pv.External {
		label += "\n(external)"
	}
	return fmt.Sprintf("label=%q", label)
}
