// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import "testing"

func TestCleanASCIISeqInplace(t *testing.T) {
	main := []byte("acgtRYNacgtACGT")
	CleanASCIISeqInplace(main)
	want := "ACGTNNNACGTACGT"
	if string(main) != want {
		t.Fatalf("CleanASCIISeqInplace(...) = %q, want %q", main, want)
	}
}

func TestIsNonACGTPresent(t *testing.T) {
	cases := []struct {
		seq  string
		want bool
	}{
		{"ACGTACGT", false},
		{"ACGTNACGT", true},
		{"acgtACGT", true},
		{"", false},
	}
	for _, c := range cases {
		if got := IsNonACGTPresent([]byte(c.seq)); got != c.want {
			t.Errorf("IsNonACGTPresent(%q) = %v, want %v", c.seq, got, c.want)
		}
	}
}
