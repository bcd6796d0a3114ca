package readprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWholeReadGood(t *testing.T) {
	r := Read{
		Name:   "r1",
		Sample: "S",
		Bases:  []byte("ACGTACGT"),
		Quals:  []byte{30, 30, 30, 30, 30, 30, 30, 30},
	}
	subs := Split(r, 20, 3)
	require.Len(t, subs, 1)
	assert.Equal(t, 0, subs[0].Start)
	assert.Equal(t, 8, subs[0].Stop)
}

func TestSplitAtLowQuality(t *testing.T) {
	r := Read{
		Name:   "r1",
		Sample: "S",
		Bases:  []byte("ACGTACGTACGT"),
		Quals:  []byte{30, 30, 30, 30, 5, 5, 30, 30, 30, 30, 30, 30},
	}
	subs := Split(r, 20, 3)
	require.Len(t, subs, 2)
	assert.Equal(t, 0, subs[0].Start)
	assert.Equal(t, 4, subs[0].Stop)
	assert.Equal(t, 6, subs[1].Start)
	assert.Equal(t, 12, subs[1].Stop)
}

func TestSplitAtN(t *testing.T) {
	r := Read{
		Name:   "r1",
		Sample: "S",
		Bases:  []byte("ACGTNACGT"),
		Quals:  []byte{30, 30, 30, 30, 30, 30, 30, 30, 30},
	}
	subs := Split(r, 20, 3)
	require.Len(t, subs, 2)
	assert.Equal(t, "ACGT", string(subs[0].Bytes[subs[0].Start:subs[0].Stop]))
	assert.Equal(t, "ACGT", string(subs[1].Bytes[subs[1].Start:subs[1].Stop]))
}

func TestSplitDropsShortRuns(t *testing.T) {
	r := Read{
		Name:   "r1",
		Sample: "S",
		Bases:  []byte("ACNNNNNNAC"),
		Quals:  []byte{30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	}
	subs := Split(r, 20, 3)
	assert.Empty(t, subs, "both good runs are shorter than the minimum length")
}

func TestSplitNormalizesAmbiguityCodesAndCase(t *testing.T) {
	r := Read{
		Name:   "r1",
		Sample: "S",
		Bases:  []byte("acgtRacgt"),
		Quals:  []byte{30, 30, 30, 30, 30, 30, 30, 30, 30},
	}
	subs := Split(r, 20, 3)
	require.Len(t, subs, 2)
	assert.Equal(t, "ACGT", string(subs[0].Bytes[subs[0].Start:subs[0].Stop]))
	assert.Equal(t, "ACGT", string(subs[1].Bytes[subs[1].Start:subs[1].Stop]))
}
