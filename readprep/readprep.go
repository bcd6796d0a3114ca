// Package readprep splits aligned reads into the good-quality sub-sequences
// that get threaded into a de Bruijn assembly graph.
package readprep

import (
	"github.com/grailbio/hts/sam"

	"github.com/grailbio/bio-rtassembly/biosimd"
)

// Read is one aligned short read as seen by the assembler: bases, their
// phred-scaled base qualities (same length as Bases), a name, the sample
// it was drawn from, and the CIGAR its aligner assigned (carried with the
// read; Split does not consult it).
type Read struct {
	Name   string
	Sample string
	Bases  []byte
	Quals  []byte
	Cigar  sam.Cigar
}

// SubSequence is one good-quality run of a read, ready to be enqueued as a
// pending non-ref sequence.
type SubSequence struct {
	Bytes []byte
	Start int
	Stop  int
}

// Split walks r.Bases left to right and cuts it into maximal runs of
// "good" bases -- not 'N' and with quality >= minBaseQualityToUseInAssembly
// -- emitting each run whose length is >= minLength as a SubSequence.
// Bases are normalized first (lowercase a/c/g/t are capitalized, every
// other non-ACGT byte collapses to 'N') so IUPAC ambiguity codes never
// silently pass as good bases.
func Split(r Read, minBaseQualityToUseInAssembly byte, minLength int) []SubSequence {
	clean := r.Bases
	if biosimd.IsNonACGTPresent(r.Bases) {
		clean = make([]byte, len(r.Bases))
		copy(clean, r.Bases)
		biosimd.CleanASCIISeqInplace(clean)
	}

	var out []SubSequence
	goodStart := -1
	for i := 0; i <= len(clean); i++ {
		good := i < len(clean) && clean[i] != 'N' && r.Quals[i] >= minBaseQualityToUseInAssembly
		switch {
		case good && goodStart < 0:
			goodStart = i
		case !good && goodStart >= 0:
			if i-goodStart >= minLength {
				out = append(out, SubSequence{Bytes: clean, Start: goodStart, Stop: i})
			}
			goodStart = -1
		}
	}
	return out
}
