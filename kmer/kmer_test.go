package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWindowBounds(t *testing.T) {
	buf := []byte("ACGTACGT")
	k, err := FromWindow(buf, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", k.String())

	_, err = FromWindow(buf, -1, 4)
	assert.Error(t, err)
	_, err = FromWindow(buf, 0, -1)
	assert.Error(t, err)
	_, err = FromWindow(buf, 5, 4)
	assert.Error(t, err)
}

func TestEqualAcrossMaterialization(t *testing.T) {
	buf := []byte("GGACGTACGTTT")
	k1, err := FromWindow(buf, 2, 4)
	require.NoError(t, err)
	k2, err := FromWindow([]byte("ACGT"), 0, 4)
	require.NoError(t, err)
	assert.True(t, k1.Equal(k2))
	assert.Equal(t, k1.Hash(), k2.Hash())

	// Materializing one side must not change equality or hash.
	_ = k1.Bases()
	assert.True(t, k1.Equal(k2))
	assert.Equal(t, k1.Hash(), k2.Hash())
}

func TestBasesCachesOwnedSlice(t *testing.T) {
	buf := []byte("TTTACGTTTT")
	k, err := FromWindow(buf, 3, 4)
	require.NoError(t, err)
	b1 := k.Bases()
	b2 := k.Bases()
	assert.Equal(t, "ACGT", string(b1))
	// Second call must return the same backing array (no re-copy).
	assert.Equal(t, &b1[0], &b2[0])
}

func TestSubSharesBuffer(t *testing.T) {
	buf := []byte("ACGTACGT")
	k, err := FromWindow(buf, 0, 8)
	require.NoError(t, err)
	sub, err := k.Sub(4, 4)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", sub.String())
}

func TestDifferingPositions(t *testing.T) {
	a, err := FromWindow([]byte("ACGTACGT"), 0, 8)
	require.NoError(t, err)
	b, err := FromWindow([]byte("ACGAACGA"), 0, 8)
	require.NoError(t, err)

	dist, pos, mm := a.DifferingPositions(b, 3)
	require.Equal(t, 2, dist)
	assert.Equal(t, []int{3, 7}, pos)
	assert.Equal(t, [][2]byte{{'T', 'A'}, {'T', 'A'}}, mm)

	dist, _, _ = a.DifferingPositions(b, 1)
	assert.Equal(t, -1, dist)
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	k1, _ := FromWindow([]byte("ACGT"), 0, 4)
	k2, _ := FromWindow([]byte("ACGT"), 0, 4)
	k3, _ := FromWindow([]byte("TTTT"), 0, 4)
	c.Add(k1, 1)
	c.Add(k2, 1)
	c.Add(k3, 1)

	assert.Equal(t, uint64(2), c.Get(k1))
	got := c.KmersWithCountAtLeast(2)
	require.Len(t, got, 1)
	assert.Equal(t, "ACGT", got[0].String())
}
