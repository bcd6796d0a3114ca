// Package kmer provides an interned, length-bounded byte window type used by
// the read-threading assembler to index and compare short sequences cheaply.
package kmer

import (
	"bytes"

	"github.com/pkg/errors"
)

// ErrOutOfRange is returned when a requested window falls outside the
// backing buffer.
var ErrOutOfRange = errors.New("kmer: window out of range")

// Kmer is a borrowed window (buf[start:start+length]) plus its precomputed
// polynomial hash. Two Kmers are Equal iff their windowed bytes are equal,
// regardless of whether either side has been materialized with Bases.
//
// A Kmer must not be mutated while it participates in any hash-keyed
// structure: FromWindow and Sub never mutate the buffer they are given, and
// Bases only ever rebinds to a freshly allocated, privately owned slice.
type Kmer struct {
	buf    []byte
	start  int
	length int
	hash   uint64
	owned  bool // true once buf is a private allocation materialized by Bases
}

// FromWindow builds a Kmer over buf[start:start+length]. It borrows buf; the
// caller must not mutate buf[start:start+length] afterwards.
func FromWindow(buf []byte, start, length int) (Kmer, error) {
	if start < 0 || length < 0 || start+length > len(buf) {
		return Kmer{}, errors.Wrapf(ErrOutOfRange, "start=%d length=%d buflen=%d", start, length, len(buf))
	}
	return Kmer{
		buf:    buf,
		start:  start,
		length: length,
		hash:   windowHash(buf[start : start+length]),
	}, nil
}

// windowHash implements the hash prescribed for Kmer: h0=1, hi=31*hi-1+b[i].
func windowHash(window []byte) uint64 {
	h := uint64(1)
	for _, b := range window {
		h = 31*h + uint64(b)
	}
	return h
}

// Len returns the number of bases in the kmer.
func (k Kmer) Len() int { return k.length }

// window returns the live byte slice backing the kmer, without allocating.
func (k Kmer) window() []byte {
	return k.buf[k.start : k.start+k.length]
}

// Sub returns a shallow sub-kmer of k, sharing k's backing buffer.
// newStart and newLength are relative to k's own window, not to the
// underlying buffer.
func (k Kmer) Sub(newStart, newLength int) (Kmer, error) {
	return FromWindow(k.buf, k.start+newStart, newLength)
}

// Bases returns the kmer's bytes as an owned slice. The first call may
// allocate and rebind k's internal buffer to the fresh allocation (resetting
// start to 0); subsequent calls return the cached slice without allocating.
//
// Bases has a pointer receiver because materialization is a one-time,
// observable rebinding of k's internal state -- callers that only ever read
// through value receivers (Equal, Hash, Sub) are unaffected by whether
// materialization has happened yet.
func (k *Kmer) Bases() []byte {
	if k.owned {
		// Already materialized into a private allocation; nothing to do.
		return k.buf
	}
	owned := make([]byte, k.length)
	copy(owned, k.window())
	k.buf = owned
	k.start = 0
	k.owned = true
	return k.buf
}

// Hash returns the precomputed polynomial hash of the windowed bytes.
func (k Kmer) Hash() uint64 { return k.hash }

// Equal reports whether k and other have the same length and windowed
// bytes. It is consistent across shallow and owned representations.
func (k Kmer) Equal(other Kmer) bool {
	if k.length != other.length {
		return false
	}
	if k.hash != other.hash {
		return false
	}
	return bytes.Equal(k.window(), other.window())
}

// String returns the materialized bases as a string, for debugging and DOT
// output. It does not mutate k.
func (k Kmer) String() string {
	return string(k.window())
}

// Key returns a comparable, hashable representation of k suitable for use
// as a Go map key (Kmer itself holds a slice and so cannot be one).
func (k Kmer) Key() string {
	return string(k.window())
}

// DifferingPositions performs a Hamming comparison between k and other (which
// must have equal length), up to maxDistance mismatches. It returns -1 if the
// number of mismatches exceeds maxDistance; otherwise it returns the
// mismatch count along with the mismatching indices and the two differing
// bytes at each such index.
func (k Kmer) DifferingPositions(other Kmer, maxDistance int) (distance int, positions []int, mismatches [][2]byte) {
	a, b := k.window(), other.window()
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			positions = append(positions, i)
			mismatches = append(mismatches, [2]byte{a[i], b[i]})
			distance++
			if distance > maxDistance {
				return -1, nil, nil
			}
		}
	}
	return distance, positions, mismatches
}
