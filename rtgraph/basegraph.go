package rtgraph

import "github.com/pkg/errors"

// ErrEdgeExists is returned by AddEdge when a parallel edge already
// connects the same ordered (src, tgt) pair; the graph forbids that.
var ErrEdgeExists = errors.New("rtgraph: parallel edge already exists for this (src,tgt) pair")

// adj is one adjacency entry: the edge index and the vertex index at its
// other end.
type adj struct {
	edge  int
	other int
}

// BaseGraph is an arena-backed directed multigraph: vertices and edges are
// owned by parallel slices and referenced by index everywhere else
// (adjacency lists, uniqueKmers, refSource/refSink), which keeps the
// back-reference from a vertex id to its vertex a simple index lookup
// instead of an ownership cycle.
type BaseGraph struct {
	vertices []*Vertex
	removed  []bool // parallel to vertices; true once RemoveVertex'd

	edges    []*Edge
	edgeSrc  []int
	edgeTgt  []int
	edgeGone []bool

	out map[int][]adj
	in  map[int][]adj

	numPruningSamples int

	refSourceIdx int // -1 if unset
	refSinkIdx   int
}

// NewBaseGraph returns an empty graph whose edges each carry a
// numPruningSamples-deep per-sample multiplicity ring.
func NewBaseGraph(numPruningSamples int) *BaseGraph {
	return &BaseGraph{
		out:               map[int][]adj{},
		in:                map[int][]adj{},
		numPruningSamples: numPruningSamples,
		refSourceIdx:      -1,
		refSinkIdx:        -1,
	}
}

// AddVertex adds v to the graph and returns its arena index.
func (g *BaseGraph) AddVertex(v *Vertex) int {
	idx := len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.removed = append(g.removed, false)
	return idx
}

// Vertex returns the vertex at idx, or nil if it has been removed.
func (g *BaseGraph) Vertex(idx int) *Vertex {
	if idx < 0 || idx >= len(g.vertices) || g.removed[idx] {
		return nil
	}
	return g.vertices[idx]
}

// NumVertices returns the number of live (non-removed) vertices.
func (g *BaseGraph) NumVertices() int {
	n := 0
	for _, r := range g.removed {
		if !r {
			n++
		}
	}
	return n
}

// VertexIndices returns the arena indices of every live vertex.
func (g *BaseGraph) VertexIndices() []int {
	out := make([]int, 0, len(g.vertices))
	for i, r := range g.removed {
		if !r {
			out = append(out, i)
		}
	}
	return out
}

// GetEdge returns the edge from src to tgt, if one exists.
func (g *BaseGraph) GetEdge(src, tgt int) (*Edge, bool) {
	for _, a := range g.out[src] {
		if a.other == tgt && !g.edgeGone[a.edge] {
			return g.edges[a.edge], true
		}
	}
	return nil, false
}

// AddEdge adds a new edge from src to tgt with the given ref flag,
// returning it. If an edge between this ordered pair already exists,
// AddEdge returns it unchanged (the caller is expected to bump its
// multiplicity itself) along with ErrEdgeExists so callers can tell the
// two cases apart.
func (g *BaseGraph) AddEdge(src, tgt int, isRef bool) (*Edge, error) {
	if e, ok := g.GetEdge(src, tgt); ok {
		return e, ErrEdgeExists
	}
	e := NewEdge(isRef, g.numPruningSamples)
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.edgeSrc = append(g.edgeSrc, src)
	g.edgeTgt = append(g.edgeTgt, tgt)
	g.edgeGone = append(g.edgeGone, false)
	g.out[src] = append(g.out[src], adj{edge: idx, other: tgt})
	g.in[tgt] = append(g.in[tgt], adj{edge: idx, other: src})
	return e, nil
}

// RemoveEdge removes the edge from src to tgt, if any.
func (g *BaseGraph) RemoveEdge(src, tgt int) {
	for _, a := range g.out[src] {
		if a.other == tgt {
			g.edgeGone[a.edge] = true
		}
	}
	g.out[src] = removeAdj(g.out[src], tgt)
	g.in[tgt] = removeAdj(g.in[tgt], src)
}

func removeAdj(list []adj, other int) []adj {
	out := list[:0]
	for _, a := range list {
		if a.other != other {
			out = append(out, a)
		}
	}
	return out
}

// RemoveVertex removes v and every edge incident to it.
func (g *BaseGraph) RemoveVertex(idx int) {
	if idx < 0 || idx >= len(g.vertices) || g.removed[idx] {
		return
	}
	for _, a := range append([]adj{}, g.out[idx]...) {
		g.RemoveEdge(idx, a.other)
	}
	for _, a := range append([]adj{}, g.in[idx]...) {
		g.RemoveEdge(a.other, idx)
	}
	g.removed[idx] = true
	if g.refSourceIdx == idx {
		g.refSourceIdx = -1
	}
	if g.refSinkIdx == idx {
		g.refSinkIdx = -1
	}
}

// InDegree returns the number of live incoming edges to idx.
func (g *BaseGraph) InDegree(idx int) int { return len(g.in[idx]) }

// OutDegree returns the number of live outgoing edges from idx.
func (g *BaseGraph) OutDegree(idx int) int { return len(g.out[idx]) }

// IncomingEdges returns the (edgeIdx, sourceVertexIdx) pairs for every edge
// entering idx.
func (g *BaseGraph) IncomingEdges(idx int) []adj { return g.in[idx] }

// OutgoingEdges returns the (edgeIdx, targetVertexIdx) pairs for every edge
// leaving idx.
func (g *BaseGraph) OutgoingEdges(idx int) []adj { return g.out[idx] }

// Edge returns the edge at edgeIdx.
func (g *BaseGraph) Edge(edgeIdx int) *Edge { return g.edges[edgeIdx] }

// EdgeEndpoints returns the (src,tgt) vertex indices of edgeIdx.
func (g *BaseGraph) EdgeEndpoints(edgeIdx int) (int, int) {
	return g.edgeSrc[edgeIdx], g.edgeTgt[edgeIdx]
}

// Sources returns the indices of every live vertex with in-degree 0.
func (g *BaseGraph) Sources() []int {
	var out []int
	for _, idx := range g.VertexIndices() {
		if g.InDegree(idx) == 0 {
			out = append(out, idx)
		}
	}
	return out
}

// Sinks returns the indices of every live vertex with out-degree 0.
func (g *BaseGraph) Sinks() []int {
	var out []int
	for _, idx := range g.VertexIndices() {
		if g.OutDegree(idx) == 0 {
			out = append(out, idx)
		}
	}
	return out
}

// RefSource returns the arena index of the reference source vertex, or
// (-1, false) if unset.
func (g *BaseGraph) RefSource() (int, bool) {
	if g.refSourceIdx < 0 {
		return -1, false
	}
	return g.refSourceIdx, true
}

// RefSink returns the arena index of the reference sink vertex, or
// (-1, false) if unset.
func (g *BaseGraph) RefSink() (int, bool) {
	if g.refSinkIdx < 0 {
		return -1, false
	}
	return g.refSinkIdx, true
}

// SetRefSource fixes the reference source vertex. It is the caller's
// responsibility to enforce the "at most once" invariant.
func (g *BaseGraph) SetRefSource(idx int) { g.refSourceIdx = idx }

// SetRefSink fixes the reference sink vertex.
func (g *BaseGraph) SetRefSink(idx int) { g.refSinkIdx = idx }

// NextRefVertex returns the unique v' such that the edge v->v' is ref, or
// (-1, false) if none. If allowNonRefFallback is true and no ref edge
// exists, it instead returns the target of the single non-ref outgoing
// edge, when exactly one exists.
func (g *BaseGraph) NextRefVertex(idx int, allowNonRefFallback bool) (int, bool) {
	for _, a := range g.out[idx] {
		if g.edges[a.edge].IsRef {
			return a.other, true
		}
	}
	if allowNonRefFallback && len(g.out[idx]) == 1 {
		return g.out[idx][0].other, true
	}
	return -1, false
}

// PrevRefVertex returns the unique v' such that the edge v'->v is ref, or
// (-1, false) if none.
func (g *BaseGraph) PrevRefVertex(idx int) (int, bool) {
	for _, a := range g.in[idx] {
		if g.edges[a.edge].IsRef {
			return a.other, true
		}
	}
	return -1, false
}

// HasCycle reports whether the graph (restricted to live vertices/edges)
// contains a directed cycle.
func (g *BaseGraph) HasCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[int]int{}
	var visit func(int) bool
	visit = func(idx int) bool {
		color[idx] = gray
		for _, a := range g.out[idx] {
			switch color[a.other] {
			case gray:
				return true
			case white:
				if visit(a.other) {
					return true
				}
			}
		}
		color[idx] = black
		return false
	}
	for _, idx := range g.VertexIndices() {
		if color[idx] == white {
			if visit(idx) {
				return true
			}
		}
	}
	return false
}

// ReferenceBytes concatenates the bases along the reference path from
// refSource to refSink. If the graph has no ref-flagged path at some
// vertex, it follows the single non-ref outgoing edge instead (used when
// reconstructing reference bytes through a region recovery has already
// touched).
func (g *BaseGraph) ReferenceBytes() []byte {
	src, ok := g.RefSource()
	if !ok {
		return nil
	}
	var out []byte
	cur := src
	out = append(out, g.vertices[cur].Bases()...)
	for {
		next, ok := g.NextRefVertex(cur, true)
		if !ok {
			break
		}
		out = append(out, suffixByte(g.vertices[next].Bases())...)
		cur = next
		if sink, ok := g.RefSink(); ok && cur == sink {
			break
		}
	}
	return out
}

func suffixByte(bases []byte) []byte {
	if len(bases) == 0 {
		return nil
	}
	return bases[len(bases)-1:]
}
