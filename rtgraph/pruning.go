package rtgraph

// PruneLowWeightChains removes every non-ref edge whose pruning
// multiplicity is below pruneFactor, then sweeps any vertex left with no
// incident edges.
func (g *BaseGraph) PruneLowWeightChains(pruneFactor uint64) {
	for _, idx := range g.VertexIndices() {
		for _, a := range append([]adj{}, g.out[idx]...) {
			e := g.edges[a.edge]
			if e.IsRef {
				continue
			}
			if e.PruningMultiplicity() < pruneFactor {
				g.RemoveEdge(idx, a.other)
			}
		}
	}
	g.sweepOrphans()
}

// sweepOrphans repeatedly removes non-ref-endpoint vertices left with
// neither incoming nor outgoing edges, which pruning and path-cleanup
// steps can produce in chains.
func (g *BaseGraph) sweepOrphans() {
	for {
		progress := false
		for _, idx := range g.VertexIndices() {
			if idx == g.refSourceIdx || idx == g.refSinkIdx {
				continue
			}
			if g.InDegree(idx) == 0 && g.OutDegree(idx) == 0 {
				g.RemoveVertex(idx)
				progress = true
			}
		}
		if !progress {
			return
		}
	}
}

// CleanNonRefPaths removes edges leading into refSource and out of
// refSink, transitively through their non-ref predecessors/successors,
// then sweeps orphans. A clean reference path never has incoming edges at
// its source or outgoing edges at its sink.
func (g *BaseGraph) CleanNonRefPaths() {
	if src, ok := g.RefSource(); ok {
		g.removeNonRefPredecessors(src, map[int]bool{})
	}
	if sink, ok := g.RefSink(); ok {
		g.removeNonRefSuccessors(sink, map[int]bool{})
	}
	g.sweepOrphans()
}

func (g *BaseGraph) removeNonRefPredecessors(idx int, visiting map[int]bool) {
	if visiting[idx] {
		return
	}
	visiting[idx] = true
	for _, a := range append([]adj{}, g.in[idx]...) {
		if g.edges[a.edge].IsRef {
			continue
		}
		pred := a.other
		g.RemoveEdge(pred, idx)
		g.removeNonRefPredecessors(pred, visiting)
	}
}

func (g *BaseGraph) removeNonRefSuccessors(idx int, visiting map[int]bool) {
	if visiting[idx] {
		return
	}
	visiting[idx] = true
	for _, a := range append([]adj{}, g.out[idx]...) {
		if g.edges[a.edge].IsRef {
			continue
		}
		succ := a.other
		g.RemoveEdge(idx, succ)
		g.removeNonRefSuccessors(succ, visiting)
	}
}

// RemovePathsNotConnectedToRef removes every vertex that is not both
// forward-reachable from refSource and backward-reachable from refSink.
func (g *BaseGraph) RemovePathsNotConnectedToRef() {
	src, ok1 := g.RefSource()
	sink, ok2 := g.RefSink()
	if !ok1 || !ok2 {
		return
	}
	fwd := g.reachable(src, g.out)
	bwd := g.reachable(sink, g.in)
	for _, idx := range g.VertexIndices() {
		if !fwd[idx] || !bwd[idx] {
			g.RemoveVertex(idx)
		}
	}
}

func (g *BaseGraph) reachable(start int, adjOf map[int][]adj) map[int]bool {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range adjOf[cur] {
			if !seen[a.other] {
				seen[a.other] = true
				queue = append(queue, a.other)
			}
		}
	}
	return seen
}
