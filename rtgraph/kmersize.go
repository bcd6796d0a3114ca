package rtgraph

import "github.com/grailbio/bio-rtassembly/kmer"

// computeNonUniqueKmers returns the union, across every sequence in seqs,
// of kmers that occur at least twice in that sequence's own sliding
// k-length window stream. A kmer non-unique within one sequence is
// ineligible as a threading-merge anchor everywhere, even where it occurs
// only once.
func computeNonUniqueKmers(seqs []*sequenceForKmers, k int) map[string]bool {
	nonUnique := map[string]bool{}
	for _, seq := range seqs {
		c := kmer.NewCounter()
		for i := seq.start; i+k <= seq.stop; i++ {
			km, err := kmer.FromWindow(seq.bytes, i, k)
			if err != nil {
				continue
			}
			c.Add(km, 1)
		}
		for _, km := range c.KmersWithCountAtLeast(2) {
			nonUnique[km.Key()] = true
		}
	}
	return nonUnique
}

func sequenceHasAnyNonUnique(seq *sequenceForKmers, k int, nonUnique map[string]bool) bool {
	for i := seq.start; i+k <= seq.stop; i++ {
		km, err := kmer.FromWindow(seq.bytes, i, k)
		if err != nil {
			continue
		}
		if nonUnique[km.Key()] {
			return true
		}
	}
	return false
}

// selectKmerSizeAndNonUniques picks the smallest size in [minK,maxK] that
// produces an empty non-unique-kmer set, or maxK (with its non-unique set)
// if none does, dropping sequences that contributed none of it as
// candidate sizes grow. The assembler always
// constructs ReadThreadingGraph with minK==maxK, so in practice this loop
// runs exactly once; the generality is preserved because nothing here
// assumes minK==maxK (see SPEC_FULL.md open question on kmer-size ranges).
func (g *ReadThreadingGraph) selectKmerSizeAndNonUniques(minK, maxK int) {
	candidates := g.allPendingSequences()
	for k := minK; k <= maxK; k++ {
		nonUnique := computeNonUniqueKmers(candidates, k)
		if len(nonUnique) == 0 || k == maxK {
			g.kmerSize = k
			g.nonUniqueKmers = nonUnique
			return
		}
		var kept []*sequenceForKmers
		for _, seq := range candidates {
			if sequenceHasAnyNonUnique(seq, k, nonUnique) {
				kept = append(kept, seq)
			}
		}
		candidates = kept
	}
}

func (g *ReadThreadingGraph) allPendingSequences() []*sequenceForKmers {
	var all []*sequenceForKmers
	for _, sample := range g.sampleOrder {
		all = append(all, g.pending[sample]...)
	}
	return all
}
