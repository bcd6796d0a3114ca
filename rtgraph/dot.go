package rtgraph

import (
	"fmt"
	"io"
	"strings"
)

// WriteDot writes a DOT-language rendering of g to w, for debugging only.
func (g *BaseGraph) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph assemblyGraphs {\n")
	for _, idx := range g.VertexIndices() {
		v := g.vertices[idx]
		b.WriteString(fmt.Sprintf("\t%d [label=\"%s%s\", shape=box];\n", v.ID, string(v.Bases()), v.Debug))
	}
	for _, idx := range g.VertexIndices() {
		for _, a := range g.out[idx] {
			e := g.edges[a.edge]
			style := "dotted"
			color := ""
			if e.IsRef {
				style = "solid"
				color = ", color=red"
			}
			b.WriteString(fmt.Sprintf("\t%d -> %d [label=\"%d\", style=%s%s];\n",
				g.vertices[idx].ID, g.vertices[a.other].ID, e.Multiplicity(), style, color))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Dot returns the same rendering as WriteDot, as a string.
func (g *BaseGraph) Dot() string {
	var b strings.Builder
	_ = g.WriteDot(&b)
	return b.String()
}
