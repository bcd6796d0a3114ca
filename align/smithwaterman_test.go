package align

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cigarString(c sam.Cigar) string {
	s := ""
	for _, op := range c {
		s += op.String()
	}
	return s
}

func TestAlignPerfectMatch(t *testing.T) {
	c := Align([]byte("ACGTACGT"), []byte("ACGTACGT"), StandardNGS, LeadingIndel)
	require.Len(t, c, 1)
	assert.Equal(t, sam.CigarMatch, c[0].Type())
	assert.Equal(t, 8, c[0].Len())
}

func TestAlignQueryShorterThanRefWindow(t *testing.T) {
	// query aligns to the middle of a larger ref window; both overhangs free.
	ref := []byte("TTTTACGTACGTTTTT")
	c := Align([]byte("ACGTACGT"), ref, StandardNGS, LeadingIndel)
	total := 0
	for _, op := range c {
		if op.Type() == sam.CigarMatch || op.Type() == sam.CigarInsertion {
			total += op.Len()
		}
	}
	assert.Equal(t, 8, total, "query must be fully consumed: %s", cigarString(c))
}

func TestAlignWithInsertionInQuery(t *testing.T) {
	// query has two extra bases relative to ref in the middle.
	ref := []byte("AAAACCCCGGGG")
	query := []byte("AAAACTCCCCGGGG")
	c := Align(query, ref, StandardNGS, LeadingIndel)
	var consumedQuery int
	var sawInsertion bool
	for _, op := range c {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarInsertion:
			consumedQuery += op.Len()
		}
		if op.Type() == sam.CigarInsertion {
			sawInsertion = true
		}
	}
	assert.Equal(t, len(query), consumedQuery)
	assert.True(t, sawInsertion, "expected an insertion op: %s", cigarString(c))
}

func TestRemoveTrailingDeletions(t *testing.T) {
	c := sam.Cigar{
		sam.NewCigarOp(sam.CigarDeletion, 2),
		sam.NewCigarOp(sam.CigarMatch, 5),
		sam.NewCigarOp(sam.CigarDeletion, 3),
	}
	out := RemoveTrailingDeletions(c)
	require.Len(t, out, 2)
	assert.Equal(t, sam.CigarDeletion, out[0].Type())
	assert.Equal(t, sam.CigarMatch, out[1].Type())
}

func TestLongestSuffixMatch(t *testing.T) {
	a := []byte("AAACCCGGG")
	b := []byte("TTTCCCGGG")
	assert.Equal(t, 6, LongestSuffixMatch(a, b, len(a)))

	assert.Equal(t, 0, LongestSuffixMatch([]byte("AAA"), []byte("TTT"), 3))
}
