package rtgraph

import (
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/grailbio/bio-rtassembly/kmer"
	"github.com/grailbio/bio-rtassembly/readprep"
)

// Sentinel errors for the *Failure categories that are surfaced to the
// caller; RecoveryRefused/AlignmentFailure conditions never reach here --
// they are absorbed into Stats instead (see dangling.go).
var (
	ErrAlreadyBuilt    = errors.New("rtgraph: graph already built; no further sequences may be added")
	ErrDoubleRefSource = errors.New("rtgraph: two reference sources")
	ErrCorruptGraph    = errors.New("rtgraph: corrupt graph")
)

// Opts configures a ReadThreadingGraph.
type Opts struct {
	KmerSize                           int
	MinBaseQualityToUseInAssembly      byte
	NumPruningSamples                  int
	PruneFactor                        uint64
	MinDanglingBranchLength            int
	ThreadingStartOnlyAtExistingVertex bool
	IncreaseCountsThroughBranches      bool
	Debug                              bool
}

// Stats accumulates the run-level summary the *Refused conditions are
// downgraded to (§7: "Recovered N of M dangling tails").
type Stats struct {
	RecoveredTails int
	RefusedTails   int
	RecoveredHeads int
	RefusedHeads   int
}

type sequenceForKmers struct {
	name   string
	bytes  []byte
	start  int
	stop   int
	count  uint64
	isRef  bool
}

// ReadThreadingGraph incrementally threads sequences into a de Bruijn
// multigraph built on top of BaseGraph.
type ReadThreadingGraph struct {
	*BaseGraph
	opts     Opts
	kmerSize int

	pending     map[string][]*sequenceForKmers
	sampleOrder []string

	uniqueKmers    map[string]int
	nonUniqueKmers map[string]bool

	haveRefSource bool
	alreadyBuilt  bool

	Stats Stats
}

// New returns an empty ReadThreadingGraph configured by opts.
func New(opts Opts) *ReadThreadingGraph {
	return &ReadThreadingGraph{
		BaseGraph:      NewBaseGraph(opts.NumPruningSamples),
		opts:           opts,
		kmerSize:       opts.KmerSize,
		pending:        map[string][]*sequenceForKmers{},
		uniqueKmers:    map[string]int{},
		nonUniqueKmers: map[string]bool{},
	}
}

// AddSequence enqueues bytes[start:stop] for threading under sample, with
// the given weight (count) and reference flag. It fails if the graph has
// already been built.
func (g *ReadThreadingGraph) AddSequence(name, sample string, bytes []byte, start, stop int, count uint64, isRef bool) error {
	if g.alreadyBuilt {
		return errors.Wrap(ErrAlreadyBuilt, "AddSequence")
	}
	if _, ok := g.pending[sample]; !ok {
		g.sampleOrder = append(g.sampleOrder, sample)
	}
	g.pending[sample] = append(g.pending[sample], &sequenceForKmers{
		name: name, bytes: bytes, start: start, stop: stop, count: count, isRef: isRef,
	})
	return nil
}

// AddRead splits r at low-quality/N bases (§4.G) and enqueues each
// retained sub-sequence as a non-ref, count-1 sequence under r.Sample.
func (g *ReadThreadingGraph) AddRead(r readprep.Read) error {
	for _, sub := range readprep.Split(r, g.opts.MinBaseQualityToUseInAssembly, g.kmerSize) {
		if err := g.AddSequence(r.Name, r.Sample, sub.Bytes, sub.Start, sub.Stop, 1, false); err != nil {
			return err
		}
	}
	return nil
}

// BuildGraphIfNecessary is idempotent: the first call selects a kmer size,
// threads every pending sequence (grouped by sample, in insertion order,
// flushing per-sample edge counters between samples), and sets
// alreadyBuilt. Later calls are no-ops.
func (g *ReadThreadingGraph) BuildGraphIfNecessary() error {
	if g.alreadyBuilt {
		return nil
	}
	g.selectKmerSizeAndNonUniques(g.kmerSize, g.kmerSize)
	for _, sample := range g.sampleOrder {
		for _, seq := range g.pending[sample] {
			if err := g.threadSequence(seq); err != nil {
				return err
			}
		}
		for _, e := range g.edges {
			e.FlushSingleSampleMultiplicity()
		}
	}
	g.pending = map[string][]*sequenceForKmers{}
	g.alreadyBuilt = true
	return nil
}

// threadSequence implements §4.E.2: find an anchor, merge backwards,
// capture the reference source, then extend the chain forward one kmer at
// a time, reusing existing vertices/edges wherever possible.
func (g *ReadThreadingGraph) threadSequence(seq *sequenceForKmers) error {
	k := g.kmerSize
	anchor := g.findStart(seq, k)
	if anchor < 0 {
		return nil
	}
	anchorKmer, err := kmer.FromWindow(seq.bytes, anchor, k)
	if err != nil {
		return err
	}
	anchorIdx, err := g.extendVertex(anchorKmer, seq.isRef, true)
	if err != nil {
		return err
	}

	g.increaseCountsBackwards(seq, anchor, anchorIdx)

	if seq.isRef {
		if g.haveRefSource {
			return errors.Wrap(ErrDoubleRefSource, "threadSequence")
		}
		g.haveRefSource = true
		g.SetRefSource(anchorIdx)
	}

	cur := anchorIdx
	for i := anchor + 1; i+k <= seq.stop; i++ {
		nextByte := seq.bytes[i+k-1]
		if nextIdx, ok := g.findOutgoingSuffixMatch(cur, nextByte); ok {
			e, _ := g.GetEdge(cur, nextIdx)
			e.AddMultiplicity(seq.count)
			if seq.isRef {
				e.IsRef = true
			}
			cur = nextIdx
			continue
		}
		km, err := kmer.FromWindow(seq.bytes, i, k)
		if err != nil {
			return err
		}
		nextIdx, err := g.extendVertex(km, seq.isRef, false)
		if err != nil {
			return err
		}
		e, addErr := g.AddEdge(cur, nextIdx, seq.isRef)
		if addErr != nil {
			// AddEdge returns the existing edge on ErrEdgeExists. Every
			// vertex extendVertex returns here ends in nextByte, and
			// findOutgoingSuffixMatch has already found no outgoing edge
			// to such a vertex, so this branch is only a guard.
			if seq.isRef {
				e.IsRef = true
			}
		}
		e.AddMultiplicity(seq.count)
		cur = nextIdx
	}
	if seq.isRef {
		g.SetRefSink(cur)
	}
	return nil
}

// findStart scans for the first eligible anchor position. The reference
// sequence always anchors at its declared start.
func (g *ReadThreadingGraph) findStart(seq *sequenceForKmers, k int) int {
	if seq.isRef {
		return seq.start
	}
	for i := seq.start; i < seq.stop-k; i++ {
		km, err := kmer.FromWindow(seq.bytes, i, k)
		if err != nil {
			continue
		}
		if g.opts.ThreadingStartOnlyAtExistingVertex {
			if _, ok := g.uniqueKmers[km.Key()]; ok {
				return i
			}
			continue
		}
		if !g.nonUniqueKmers[km.Key()] {
			return i
		}
	}
	return -1
}

// increaseCountsBackwards implements §4.E.2 step 2: walk backwards from
// the anchor through matching incoming edges, bumping their multiplicity,
// as long as branching policy allows it.
func (g *ReadThreadingGraph) increaseCountsBackwards(seq *sequenceForKmers, anchorPos, anchorIdx int) {
	k := g.kmerSize
	cur := anchorIdx
	offset := anchorPos - 1
	for offset >= 0 {
		wantPos := offset + k - 1
		if wantPos < 0 || wantPos >= len(seq.bytes) {
			return
		}
		wantByte := seq.bytes[wantPos]
		matched := -1
		for _, a := range g.in[cur] {
			bases := g.vertices[a.other].Bases()
			if len(bases) > 0 && bases[len(bases)-1] == wantByte {
				matched = a.other
				break
			}
		}
		if matched < 0 {
			return
		}
		if !(g.opts.IncreaseCountsThroughBranches || g.InDegree(cur) == 1) {
			return
		}
		e, ok := g.GetEdge(matched, cur)
		if !ok {
			return
		}
		e.AddMultiplicity(seq.count)
		cur = matched
		offset--
	}
}

// findOutgoingSuffixMatch looks for an outgoing edge from cur whose target
// vertex's trailing base equals b.
func (g *ReadThreadingGraph) findOutgoingSuffixMatch(cur int, b byte) (int, bool) {
	for _, a := range g.out[cur] {
		bases := g.vertices[a.other].Bases()
		if len(bases) > 0 && bases[len(bases)-1] == b {
			return a.other, true
		}
	}
	return -1, false
}

// extendVertex resolves the vertex a kmer should map to: reuse the
// unique-kmer vertex when eligible, else mint a new one and register it in
// uniqueKmers iff the kmer is not known non-unique.
//
// allowRefSource governs only whether a non-ref thread may reuse the
// dedicated reference source vertex: per §4.E.2, the restriction applies to
// "extend chain" (step 4), not to obtaining the start vertex (step 1) --
// threadSequence passes true for the anchor lookup and false for every
// subsequent chain-extension call, so a read anchored on the reference's
// own start kmer still shares that vertex (and can go on to form a branch)
// instead of being forced onto a disjoint start vertex.
//
// A reference thread is never allowed to silently merge into a vertex that
// already has incoming edges, none of them ref-flagged (a vertex with no
// incoming edges at all is reused) -- that would corrupt the simple-path
// invariant on the
// reference. In debug mode this is a fatal CorruptGraph error; otherwise
// (§7 propagation policy: "best-effort skip in release") a fresh vertex is
// minted instead and the merge is simply skipped.
func (g *ReadThreadingGraph) extendVertex(km kmer.Kmer, isRef, allowRefSource bool) (int, error) {
	key := km.Key()
	if idx, ok := g.uniqueKmers[key]; ok {
		switch {
		case idx == g.refSourceIdx && !isRef && !allowRefSource:
			// A non-ref thread extending the chain may not merge into the
			// dedicated reference source vertex; fall through to mint a
			// fresh vertex.
		case isRef:
			hasRefIncoming := false
			for _, a := range g.in[idx] {
				if g.edges[a.edge].IsRef {
					hasRefIncoming = true
					break
				}
			}
			if hasRefIncoming || g.InDegree(idx) == 0 {
				return idx, nil
			}
			if g.opts.Debug {
				return -1, errors.Wrap(ErrCorruptGraph, "reference thread merged into a previously-unique non-ref vertex")
			}
			log.Error.Printf("rtgraph: skipping corrupt merge of reference thread into vertex %d", idx)
			// release mode: skip the merge, mint a fresh vertex below.
		default:
			return idx, nil
		}
	}
	v := NewVertex(km.Bases())
	idx := g.AddVertex(v)
	if !g.nonUniqueKmers[key] {
		if _, exists := g.uniqueKmers[key]; !exists {
			g.uniqueKmers[key] = idx
		}
	}
	return idx, nil
}

// ConvertToSequenceGraph builds the graph if necessary, then collapses it
// into an independent compacted sequence graph.
func (g *ReadThreadingGraph) ConvertToSequenceGraph() (*BaseGraph, error) {
	if err := g.BuildGraphIfNecessary(); err != nil {
		return nil, err
	}
	return g.BaseGraph.ConvertToSequenceGraph(), nil
}
