package rtgraph

import (
	"github.com/grailbio/hts/sam"

	"github.com/grailbio/bio-rtassembly/align"
)

// pathWalk holds one orphan/reference branch plus the per-byte vertex
// attribution needed to map an alignment position back to a vertex index.
type pathWalk struct {
	vertices []int  // path order: nearest-the-junction-vertex first
	bytes    []byte // the linear sequence built from vertices
	owner    []int  // owner[i] is the vertices[] index that contributed bytes[i]
}

func (p pathWalk) empty() bool { return len(p.vertices) == 0 }

// walkAltUp walks backwards from a non-ref sink v, accumulating the orphan
// branch, per §4.E.3 step 1. A low-pruning-multiplicity edge discards
// everything accumulated so far without stopping the walk. The walk stops
// at the first vertex with in-degree != 1 or out-degree >= 2 (the LCA,
// which is not itself part of the returned path).
func (g *ReadThreadingGraph) walkAltUp(v int, pruneFactor uint64, minBranchLen int) (path []int, lca int, ok bool) {
	cur := v
	for {
		if g.InDegree(cur) != 1 || g.OutDegree(cur) >= 2 {
			break
		}
		path = append(path, cur)
		a := g.in[cur][0]
		if g.edges[a.edge].PruningMultiplicity() < pruneFactor {
			path = nil
		}
		cur = a.other
		if cur == g.refSourceIdx {
			return nil, -1, false
		}
	}
	minLen := minBranchLen
	if minLen < 1 {
		minLen = 1
	}
	minLen++
	if len(path) < minLen {
		return nil, -1, false
	}
	return path, cur, true
}

// walkAltDown is the symmetric forward walk used by dangling-head
// recovery (§4.E.4 step 1).
func (g *ReadThreadingGraph) walkAltDown(v int, pruneFactor uint64, minBranchLen int) (path []int, hcd int, ok bool) {
	cur := v
	for {
		if g.OutDegree(cur) != 1 || g.InDegree(cur) >= 2 {
			break
		}
		path = append(path, cur)
		a := g.out[cur][0]
		if g.edges[a.edge].PruningMultiplicity() < pruneFactor {
			path = nil
		}
		cur = a.other
		if cur == g.refSinkIdx {
			return nil, -1, false
		}
	}
	minLen := minBranchLen
	if minLen < 1 {
		minLen = 1
	}
	minLen++
	if len(path) < minLen {
		return nil, -1, false
	}
	return path, cur, true
}

// buildSuffixPath renders vertices (in the order given; tail recovery
// passes both paths junction-first) into a linear byte string using
// only each vertex's trailing base -- the source vertex is never expanded
// to its full kmer. Used by tail recovery for both the alt and ref
// strings (§4.E.3 step 3: "do not expand the source vertex on a tail").
func (g *ReadThreadingGraph) buildSuffixPath(vertices []int) pathWalk {
	p := pathWalk{vertices: vertices}
	for _, idx := range vertices {
		b := suffixByte(g.vertices[idx].Bases())
		for range b {
			p.owner = append(p.owner, idx)
		}
		p.bytes = append(p.bytes, b...)
	}
	return p
}

// buildExpandedPath is the head-recovery counterpart: the first vertex
// contributes its full kmer bases, every subsequent vertex contributes
// only its trailing base.
func (g *ReadThreadingGraph) buildExpandedPath(vertices []int) pathWalk {
	p := pathWalk{vertices: vertices}
	for i, idx := range vertices {
		var b []byte
		if i == 0 {
			b = g.vertices[idx].Bases()
		} else {
			b = suffixByte(g.vertices[idx].Bases())
		}
		for range b {
			p.owner = append(p.owner, idx)
		}
		p.bytes = append(p.bytes, b...)
	}
	return p
}

// refPathDownFrom returns the vertices of the reference path from lca
// (inclusive) to refSink (inclusive).
func (g *ReadThreadingGraph) refPathDownFrom(lca int) []int {
	out := []int{lca}
	cur := lca
	for {
		next, ok := g.NextRefVertex(cur, false)
		if !ok {
			break
		}
		out = append(out, next)
		cur = next
		if sink, ok := g.RefSink(); ok && cur == sink {
			break
		}
	}
	return out
}

// refPathUpTo returns the vertices of the reference path from refSource
// (inclusive) to hcd (inclusive), in forward order.
func (g *ReadThreadingGraph) refPathUpTo(hcd int) []int {
	var rev []int
	cur := hcd
	for {
		rev = append(rev, cur)
		if src, ok := g.RefSource(); ok && cur == src {
			break
		}
		prev, ok := g.PrevRefVertex(cur)
		if !ok {
			break
		}
		cur = prev
	}
	out := make([]int, len(rev))
	for i, idx := range rev {
		out[len(rev)-1-i] = idx
	}
	return out
}

// extendPathAgainstReference grows path (in the direction it already
// runs) by synthesizing additional single-byte vertices from extra
// reference bytes, until it is at least wantLen long. Used when a
// dangling-head merge point falls past the end of the orphan branch
// itself (§4.E.4: "attempt extend_dangling_path_against_reference").
func (g *ReadThreadingGraph) extendPathAgainstReference(tipIdx int, extra []byte, wantLen, haveLen int) ([]int, bool) {
	need := wantLen - haveLen
	if need <= 0 {
		return nil, true
	}
	if need > len(extra) {
		return nil, false
	}
	var added []int
	prev := tipIdx
	for i := 0; i < need; i++ {
		v := NewVertex(extra[i : i+1])
		idx := g.AddVertex(v)
		e, err := g.AddEdge(idx, prev, false)
		if err == nil {
			e.AddMultiplicity(1)
		}
		added = append(added, idx)
		prev = idx
	}
	return added, true
}

// mergeTail adds the single non-ref recovery edge for a successful tail
// merge and reports success.
func (g *ReadThreadingGraph) mergeTail(altPath, refPath []int, altIdx, refIdx int) bool {
	if altIdx < 0 || altIdx >= len(altPath) || refIdx <= 0 || refIdx >= len(refPath) {
		return false
	}
	e, err := g.AddEdge(altPath[altIdx], refPath[refIdx], false)
	if err != nil {
		return false
	}
	e.AddMultiplicity(1)
	return true
}

// recoverOneDanglingTail attempts §4.E.3 for a single non-ref sink v.
func (g *ReadThreadingGraph) recoverOneDanglingTail(v int, pruneFactor uint64, minBranchLen int) bool {
	altVertices, lca, ok := g.walkAltUp(v, pruneFactor, minBranchLen)
	if !ok {
		return false
	}
	// altVertices is accumulated nearest-v-first; the branch runs
	// lca -> ... -> v, so reverse to forward order.
	alt := make([]int, len(altVertices))
	for i, idx := range altVertices {
		alt[len(altVertices)-1-i] = idx
	}
	refVertices := g.refPathDownFrom(lca)

	altW := g.buildSuffixPath(alt)
	refW := g.buildSuffixPath(refVertices)
	if altW.empty() || refW.empty() {
		return false
	}

	cigar := align.RemoveTrailingDeletions(align.Align(altW.bytes, refW.bytes, align.StandardNGS, align.LeadingIndel))
	if len(cigar) == 0 || len(cigar) > 3 {
		return false
	}
	last := cigar[len(cigar)-1]
	if last.Type() != sam.CigarMatch {
		return false
	}

	refLen := len(refW.bytes)
	altLen := len(altW.bytes)
	suffixMatch := align.LongestSuffixMatch(refW.bytes, altW.bytes, refLen-1)
	if int(last.Len()) < suffixMatch {
		suffixMatch = int(last.Len())
	}
	if suffixMatch == 0 {
		return false
	}

	altIdx := altLen - suffixMatch - 1
	if altIdx < 0 {
		altIdx = 0
	}
	refIdx := refLen - suffixMatch

	first := cigar[0]
	if first.Type() == sam.CigarDeletion && int(first.Len())+suffixMatch == refLen {
		refIdx++
	}
	if refIdx <= 0 || refIdx >= len(refVertices) {
		return false
	}

	altVertexIdx := mapStrToVertex(altW, altIdx)
	if altVertexIdx < 0 {
		return false
	}
	return g.mergeTail(alt, refVertices, altVertexIdx, refIdx)
}

// mapStrToVertex returns the path-vertex-list index (not the vertex id)
// that owns string position pos.
func mapStrToVertex(p pathWalk, pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(p.owner) {
		pos = len(p.owner) - 1
	}
	ownerVertex := p.owner[pos]
	for i, v := range p.vertices {
		if v == ownerVertex {
			return i
		}
	}
	return -1
}

// RecoverDanglingTails runs §4.E.3 over every current non-ref sink.
// Non-ref sinks it cannot recover are silently counted, per §7's
// RecoveryRefused policy -- nothing here is fatal.
func (g *ReadThreadingGraph) RecoverDanglingTails(pruneFactor uint64, minBranchLen int) error {
	if err := g.BuildGraphIfNecessary(); err != nil {
		return err
	}
	sink, hasSink := g.RefSink()
	for _, v := range g.Sinks() {
		if hasSink && v == sink {
			continue
		}
		if g.recoverOneDanglingTail(v, pruneFactor, minBranchLen) {
			g.Stats.RecoveredTails++
		} else {
			g.Stats.RefusedTails++
		}
	}
	return nil
}

// recoverOneDanglingHead attempts §4.E.4 for a single non-ref source v.
func (g *ReadThreadingGraph) recoverOneDanglingHead(v int, pruneFactor uint64, minBranchLen int) bool {
	altVertices, hcd, ok := g.walkAltDown(v, pruneFactor, minBranchLen)
	if !ok {
		return false
	}
	// altVertices is accumulated nearest-v-first, which is already the
	// forward (v -> ... -> hcd) order this branch runs in.
	refVertices := g.refPathUpTo(hcd)

	altW := g.buildExpandedPath(altVertices)
	refW := g.buildExpandedPath(refVertices)
	if altW.empty() || refW.empty() {
		return false
	}

	cigar := align.Align(altW.bytes, refW.bytes, align.StandardNGS, align.LeadingIndel)
	if len(cigar) == 0 {
		return false
	}
	first := cigar[0]
	if first.Type() != sam.CigarMatch {
		return false
	}
	firstMLen := int(first.Len())
	if firstMLen > len(altW.bytes) || firstMLen > len(refW.bytes) {
		return false
	}

	maxMismatches := len(altVertices) / g.kmerSize
	if maxMismatches < 1 {
		maxMismatches = 1
	}
	lastMismatch := firstMLen - 1
	mismatches := 0
	for i := 0; i < firstMLen; i++ {
		if altW.bytes[i] != refW.bytes[i] {
			mismatches++
			if mismatches > maxMismatches {
				return false
			}
			lastMismatch = i
		}
	}

	altVertexIdx := mapStrToVertex(altW, lastMismatch)
	refVertexIdx := mapStrToVertex(refW, lastMismatch) + 1
	if altVertexIdx < 0 {
		return false
	}
	if altVertexIdx >= len(altVertices) {
		extraNeed := altVertexIdx + 1 - len(altVertices)
		tip := altVertices[len(altVertices)-1]
		extra := g.ReferenceBytes()
		added, ok := g.extendPathAgainstReference(tip, extra, len(altVertices)+extraNeed, len(altVertices))
		if !ok {
			return false
		}
		altVertices = append(altVertices, added...)
	}
	if refVertexIdx < 0 || refVertexIdx >= len(refVertices) {
		return false
	}

	e, err := g.AddEdge(refVertices[refVertexIdx], altVertices[altVertexIdx], false)
	if err != nil {
		return false
	}
	e.AddMultiplicity(1)
	return true
}

// RecoverDanglingHeads runs §4.E.4 over every current non-ref source.
func (g *ReadThreadingGraph) RecoverDanglingHeads(pruneFactor uint64, minBranchLen int) error {
	if err := g.BuildGraphIfNecessary(); err != nil {
		return err
	}
	src, hasSrc := g.RefSource()
	for _, v := range g.Sources() {
		if hasSrc && v == src {
			continue
		}
		if g.recoverOneDanglingHead(v, pruneFactor, minBranchLen) {
			g.Stats.RecoveredHeads++
		} else {
			g.Stats.RefusedHeads++
		}
	}
	return nil
}
