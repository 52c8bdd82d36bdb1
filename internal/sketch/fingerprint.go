package sketch

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// FNV1aUpper computes the 64-bit FNV-1a hash of seq, case-folding each
// byte to upper-case first (spec.md §4.5's "FNV1a(upper(seq))"
// fingerprint used to key the duplication and overrepresented-sequence
// Space-Saving tables).
func FNV1aUpper(seq []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, b := range seq {
		h ^= uint64(b & 0xDF)
		h *= fnvPrime64
	}
	return h
}
