// Package align provides the local-alignment and CIGAR utilities the
// assembler uses to reconcile an orphan branch of the de Bruijn graph with
// the reference path it diverged from.
package align

import (
	"github.com/grailbio/hts/sam"
)

// Scoring holds the match/mismatch/gap parameters for Align.
type Scoring struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
}

// StandardNGS is the "STANDARD_NGS" scoring set used throughout dangling
// branch recovery.
var StandardNGS = Scoring{Match: 10, Mismatch: -15, GapOpen: -30, GapExtend: -5}

// OverhangStrategy names how unaligned ends of query are represented. Align
// does not consult it: every value yields the LeadingIndel representation.
type OverhangStrategy int

const (
	// LeadingIndel biases unmatched query prefix/suffix toward explicit
	// indels rather than extending the alignment through mismatches. This
	// is the only strategy dangling-branch recovery uses.
	LeadingIndel OverhangStrategy = iota
	// SoftClip and Ignore are accepted for API completeness and behave
	// exactly like LeadingIndel; callers in this assembler never request
	// them.
	SoftClip
	Ignore
)

const negInf = -(1 << 30)

// Align computes a local alignment of query against ref using the given
// scoring, and returns the CIGAR describing how query maps onto a subrange
// of ref. Only the CIGAR is returned; the position of that subrange within
// ref is not.
//
// query is always fully consumed: every base of query appears in the CIGAR
// as part of an M or I operation. ref may be partially consumed -- both
// a leading and a trailing run of ref bases may fall outside the alignment
// for free, modeling the fact that ref here is a generous window around
// the true branch point, not the exact bounds of the expected match. This
// asymmetry -- query fully charged, ref free at both ends -- is what makes
// an unaligned prefix/suffix of query show up as an explicit I (never as
// extended M through mismatches): the boundary of the DP matrix only has
// an incoming insertion edge, so LEADING_INDEL behavior falls out of the
// recurrence directly rather than needing a special case.
func Align(query, ref []byte, scoring Scoring, strategy OverhangStrategy) sam.Cigar {
	qn, rn := len(query), len(ref)

	h := make2D(qn+1, rn+1)
	e := make2D(qn+1, rn+1) // best score ending with a deletion (ref consumed, query not)
	f := make2D(qn+1, rn+1) // best score ending with an insertion (query consumed, ref not)
	ptr := make([][]byte, qn+1)
	for i := range ptr {
		ptr[i] = make([]byte, rn+1)
	}

	for j := 0; j <= rn; j++ {
		h[0][j] = 0 // leading ref overhang is free
		e[0][j] = negInf
		f[0][j] = negInf
	}
	for i := 1; i <= qn; i++ {
		// Query has no free overhang: consuming query bases before any ref
		// base is aligned can only happen via insertions.
		h[i][0] = scoring.GapOpen + i*scoring.GapExtend
		f[i][0] = h[i][0]
		e[i][0] = negInf
		ptr[i][0] = 'I'
	}

	for i := 1; i <= qn; i++ {
		for j := 1; j <= rn; j++ {
			openE := h[i][j-1] + scoring.GapOpen + scoring.GapExtend
			extE := e[i][j-1] + scoring.GapExtend
			if openE >= extE {
				e[i][j] = openE
			} else {
				e[i][j] = extE
			}

			openF := h[i-1][j] + scoring.GapOpen + scoring.GapExtend
			extF := f[i-1][j] + scoring.GapExtend
			if openF >= extF {
				f[i][j] = openF
			} else {
				f[i][j] = extF
			}

			match := scoring.Mismatch
			if query[i-1] == ref[j-1] {
				match = scoring.Match
			}
			diag := h[i-1][j-1] + match

			best, dir := diag, byte('M')
			if e[i][j] > best {
				best, dir = e[i][j], 'D'
			}
			if f[i][j] > best {
				best, dir = f[i][j], 'I'
			}
			h[i][j] = best
			ptr[i][j] = dir
		}
	}

	// Trailing ref overhang is free: pick the best-scoring column in the
	// final (fully-query-consumed) row.
	bestJ, bestScore := 0, h[qn][0]
	for j := 1; j <= rn; j++ {
		if h[qn][j] > bestScore {
			bestScore, bestJ = h[qn][j], j
		}
	}

	return traceback(ptr, qn, bestJ)
}

func make2D(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

func traceback(ptr [][]byte, i, j int) sam.Cigar {
	var rev []sam.CigarOp
	push := func(t sam.CigarOpType) {
		if len(rev) > 0 && rev[len(rev)-1].Type() == t {
			rev[len(rev)-1] = sam.NewCigarOp(t, rev[len(rev)-1].Len()+1)
			return
		}
		rev = append(rev, sam.NewCigarOp(t, 1))
	}
	for i > 0 {
		switch ptr[i][j] {
		case 'M':
			push(sam.CigarMatch)
			i--
			j--
		case 'D':
			push(sam.CigarDeletion)
			j--
		case 'I':
			push(sam.CigarInsertion)
			i--
		default:
			// Unreachable: every cell with i>0 has a recorded direction.
			i--
		}
	}
	out := make(sam.Cigar, len(rev))
	for k, op := range rev {
		out[len(rev)-1-k] = op
	}
	return out
}
