package rtgraph

// ConvertToSequenceGraph collapses a kmer graph into a compacted sequence
// graph: a graph source (in-degree 0) keeps its full kmer bases, every
// other vertex keeps only its trailing base. Edges, ref flags, and
// multiplicities are carried over unchanged; the two graphs share no
// mutable state afterwards.
func (g *BaseGraph) ConvertToSequenceGraph() *BaseGraph {
	out := NewBaseGraph(g.numPruningSamples)
	remap := make(map[int]int, len(g.vertices))

	for _, idx := range g.VertexIndices() {
		v := g.vertices[idx]
		var bases []byte
		if g.InDegree(idx) == 0 {
			bases = v.Bases()
		} else {
			bases = suffixByte(v.Bases())
		}
		remap[idx] = out.AddVertex(NewVertex(bases))
	}

	for _, idx := range g.VertexIndices() {
		for _, a := range g.out[idx] {
			e := g.edges[a.edge]
			ne, err := out.AddEdge(remap[idx], remap[a.other], e.IsRef)
			if err != nil {
				continue
			}
			ne.AddMultiplicity(e.Multiplicity())
		}
	}

	if src, ok := g.RefSource(); ok {
		out.SetRefSource(remap[src])
	}
	if sink, ok := g.RefSink(); ok {
		out.SetRefSink(remap[sink])
	}
	return out
}
