package rtgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(k int) *ReadThreadingGraph {
	return New(Opts{
		KmerSize:                k,
		NumPruningSamples:       1,
		PruneFactor:             1,
		MinDanglingBranchLength: 1,
	})
}

func refString(t *testing.T, g *ReadThreadingGraph) string {
	t.Helper()
	require.NoError(t, g.BuildGraphIfNecessary())
	return string(g.ReferenceBytes())
}

func TestRefOnlyLinearGraph(t *testing.T) {
	g := newTestGraph(3)
	ref := []byte("ACGTACGT")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.BuildGraphIfNecessary())

	assert.Equal(t, "ACGTACGT", string(g.ReferenceBytes()))
	src, ok := g.RefSource()
	require.True(t, ok)
	assert.Equal(t, "ACG", string(g.Vertex(src).Bases()))
	assert.False(t, g.HasCycle())

	for _, idx := range g.VertexIndices() {
		for _, a := range g.OutgoingEdges(idx) {
			assert.True(t, g.Edge(a.edge).IsRef)
		}
	}
}

func TestPerfectReadDoublesMultiplicity(t *testing.T) {
	g := newTestGraph(3)
	ref := []byte("ACGTACGT")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.AddSequence("read1", "S", ref, 0, len(ref), 1, false))
	require.NoError(t, g.BuildGraphIfNecessary())

	src, ok := g.RefSource()
	require.True(t, ok)
	cur := src
	for {
		next, ok := g.NextRefVertex(cur, false)
		if !ok {
			break
		}
		e, ok := g.GetEdge(cur, next)
		require.True(t, ok)
		assert.Equal(t, uint64(2), e.Multiplicity())
		cur = next
	}
}

func TestSNPBranchAndPruning(t *testing.T) {
	g := newTestGraph(4)
	ref := []byte("AAACCCGGG")
	read := []byte("AAACTCGGG")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.AddSequence("read1", "S", read, 0, len(read), 1, false))
	require.NoError(t, g.BuildGraphIfNecessary())

	found := false
	for _, idx := range g.VertexIndices() {
		if g.OutDegree(idx) >= 2 {
			found = true
		}
	}
	assert.True(t, found, "expected a branch point from the SNP read")

	g.PruneLowWeightChains(2)
	for _, idx := range g.VertexIndices() {
		for _, a := range g.OutgoingEdges(idx) {
			e := g.Edge(a.edge)
			if !e.IsRef {
				assert.True(t, e.PruningMultiplicity() >= 2)
			}
		}
	}
}

func TestDanglingTailRecovery(t *testing.T) {
	g := newTestGraph(4)
	ref := []byte("AAAAACCCCC")
	read := []byte("AAAAACCCGG")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.AddSequence("read1", "S", read, 0, len(read), 1, false))
	require.NoError(t, g.BuildGraphIfNecessary())

	hadNonRefSink := false
	if sink, ok := g.RefSink(); ok {
		for _, v := range g.Sinks() {
			if v != sink {
				hadNonRefSink = true
			}
		}
	}
	require.True(t, hadNonRefSink, "read should have produced a dangling tail before recovery")

	require.NoError(t, g.RecoverDanglingTails(1, 2))

	sink, ok := g.RefSink()
	require.True(t, ok)
	for _, v := range g.Sinks() {
		assert.Equal(t, sink, v, "no non-ref sinks should remain after recovery")
	}
}

func TestDanglingHeadRecovery(t *testing.T) {
	g := newTestGraph(4)
	ref := []byte("AAAAACCCCC")
	read := []byte("GGAAACCCCC")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.AddSequence("read1", "S", read, 0, len(read), 1, false))
	require.NoError(t, g.BuildGraphIfNecessary())

	require.NoError(t, g.RecoverDanglingHeads(1, 2))

	src, ok := g.RefSource()
	require.True(t, ok)
	for _, v := range g.Sources() {
		assert.Equal(t, src, v, "no non-ref sources should remain after recovery")
	}
}

func TestNonUniqueKmerSequenceContributesNothing(t *testing.T) {
	g := newTestGraph(3)
	ref := []byte("ATATATAT")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.AddSequence("read1", "S", ref, 0, len(ref), 1, false))
	require.NoError(t, g.BuildGraphIfNecessary())

	assert.Empty(t, g.uniqueKmers)
	assert.NotEmpty(t, g.nonUniqueKmers)
}

func TestBuildGraphIfNecessaryIsIdempotent(t *testing.T) {
	g := newTestGraph(3)
	ref := []byte("ACGTACGT")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.BuildGraphIfNecessary())
	before := g.NumVertices()
	require.NoError(t, g.BuildGraphIfNecessary())
	assert.Equal(t, before, g.NumVertices())
}

func TestAddSequenceAfterBuildFails(t *testing.T) {
	g := newTestGraph(3)
	ref := []byte("ACGTACGT")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))
	require.NoError(t, g.BuildGraphIfNecessary())
	err := g.AddSequence("late", "S", ref, 0, len(ref), 1, false)
	assert.Error(t, err)
}

func TestConvertToSequenceGraphPreservesReferenceBytes(t *testing.T) {
	g := newTestGraph(3)
	ref := []byte("ACGTACGT")
	require.NoError(t, g.AddSequence("ref", "ref", ref, 0, len(ref), 1, true))

	seqGraph, err := g.ConvertToSequenceGraph()
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", string(seqGraph.ReferenceBytes()))
}
