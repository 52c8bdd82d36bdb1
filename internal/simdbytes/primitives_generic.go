package simdbytes

// CountBases counts A/C/G/T/N occurrences in seq, case-insensitively,
// ignoring any other byte. This is the scalar reference implementation;
// see primitives_amd64.go for the word-parallel build.
func CountBases(seq []byte) (a, c, g, t, n uint64) {
	for _, b := range seq {
		switch b & upperMask {
		case 'A':
			a++
		case 'C':
			c++
		case 'G':
			g++
		case 'T':
			t++
		case 'N':
			n++
		}
	}
	return
}

// SumQual sums max(0, q-offset) over qual, saturating at zero per base.
func SumQual(qual []byte, offset byte) uint32 {
	var sum uint32
	for _, q := range qual {
		if q > offset {
			sum += uint32(q - offset)
		}
	}
	return sum
}

// PrefixScan reports whether seq contains any of prefixes as a
// case-insensitive substring.
func PrefixScan(seq []byte, prefixes [][]byte) bool {
	for _, p := range prefixes {
		if containsFoldASCII(seq, p) {
			return true
		}
	}
	return false
}

func containsFoldASCII(seq, pat []byte) bool {
	n, m := len(seq), len(pat)
	if m == 0 || m > n {
		return false
	}
outer:
	for i := 0; i+m <= n; i++ {
		for j := 0; j < m; j++ {
			if seq[i+j]&upperMask != pat[j]&upperMask {
				continue outer
			}
		}
		return true
	}
	return false
}

// Pack2Bit16 packs 16 bytes (block must have length >= 16) into a 2-bit
// code stream plus a validity mask: bit i of validMask is set iff
// block[i] is an ACGT base (case-insensitive), and in that case bits
// [2*i, 2*i+1] of packed hold its 2-bit code. Codes for invalid positions
// are left undefined (zero), per spec.md §4.4.
func Pack2Bit16(block []byte) (validMask uint16, packed uint32) {
	_ = block[15]
	for i := 0; i < 16; i++ {
		up := block[i] & upperMask
		if isACGTTable[up] {
			validMask |= 1 << uint(i)
			packed |= uint32(base2BitTable[up]) << uint(2*i)
		}
	}
	return
}
