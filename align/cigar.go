package align

import "github.com/grailbio/hts/sam"

// RemoveTrailingDeletions drops a single terminal deletion operator from
// cigar, if present. Leading deletions are left untouched -- they matter to
// the caller (they shift where the reference-side merge point lands),
// whereas a trailing deletion is merely an artifact of a free trailing
// ref overhang and carries no information.
func RemoveTrailingDeletions(cigar sam.Cigar) sam.Cigar {
	if len(cigar) == 0 {
		return cigar
	}
	last := cigar[len(cigar)-1]
	if last.Type() != sam.CigarDeletion {
		return cigar
	}
	out := make(sam.Cigar, len(cigar)-1)
	copy(out, cigar[:len(cigar)-1])
	return out
}

// LongestSuffixMatch returns the length of the longest common suffix of
// a[:endOfA] and b.
func LongestSuffixMatch(a, b []byte, endOfA int) int {
	if endOfA > len(a) {
		endOfA = len(a)
	}
	if endOfA < 0 {
		endOfA = 0
	}
	n := 0
	for n < endOfA && n < len(b) && a[endOfA-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
