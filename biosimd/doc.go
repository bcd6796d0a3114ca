// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides byte-table-driven normalization helpers for raw
// sequence bytes. It is trimmed to the single concern the assembler core
// actually needs: collapsing a read's bases to a canonical {A,C,G,T,N}
// alphabet before threading (lowercase a/c/g/t are capitalized), so IUPAC
// ambiguity codes never silently pass as confident bases.
package biosimd
