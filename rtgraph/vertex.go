// Package rtgraph implements the de Bruijn multigraph, its read-threading
// construction algorithm, dangling-branch recovery, and the collapse into a
// compacted sequence graph. It is the core of the assembler: everything
// else (kmer, align, readprep) is a leaf dependency of this package.
package rtgraph

import "sync/atomic"

// globalVertexID backs vertex identity. It is process-wide and must be
// monotonically increasing even though any single graph is used by one
// goroutine at a time -- distinct graphs may be built concurrently on
// different goroutines, and their vertex ids must never collide.
var globalVertexID uint64

func nextVertexID() uint64 {
	return atomic.AddUint64(&globalVertexID, 1)
}

// Vertex is one kmer occurrence in the graph. Multiple vertices may carry
// identical bases -- that's how a non-unique kmer gets represented as
// several distinct graph positions. Equality is by ID alone, never by
// bases.
type Vertex struct {
	ID    uint64
	bases []byte
	Debug string
}

// NewVertex allocates a vertex with a fresh, process-unique id. bases is
// copied; the caller may reuse or mutate its argument afterwards.
func NewVertex(bases []byte) *Vertex {
	owned := make([]byte, len(bases))
	copy(owned, bases)
	return &Vertex{ID: nextVertexID(), bases: owned}
}

// Bases returns the vertex's bases (the full kmer in a kmer graph, or the
// full kmer / single suffix byte in a collapsed sequence graph).
func (v *Vertex) Bases() []byte { return v.bases }

// Equal reports whether v and other are the same vertex.
func (v *Vertex) Equal(other *Vertex) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.ID == other.ID
}

func (v *Vertex) String() string {
	if v == nil {
		return "<nil>"
	}
	return string(v.bases)
}
