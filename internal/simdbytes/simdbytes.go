// Package simdbytes implements the byte-parallel primitives of spec.md
// §4.4: base counting, quality summation, adapter-prefix scanning, and the
// 16-byte ACGT-to-2-bit packer used by the k-mer engine.
//
// Each primitive has two implementations sharing one contract: a portable
// scalar reference build (primitives_generic.go, built on every platform;
// primitives_wordfallback.go maps the WordParallel* names onto it off
// amd64) and a
// word-parallel build for amd64 (primitives_amd64.go) that processes eight
// bytes per iteration using SWAR (SIMD-within-a-register) bit tricks
// instead of hand-written assembly — see DESIGN.md for why real assembly
// was not attempted in this exercise. Both builds are required to produce
// bit-identical output; primitives_test.go checks this against shared
// vectors whenever both variants are reachable in the same build (the
// word-parallel functions are additionally exposed under the WordParallel*
// names so the test can exercise both on a single platform).
package simdbytes

// NibbleLookupTable is a 16-entry byte substitution table type. Pack2Bit16
// and PrefixScan do not use it; they rely on base2BitTable, isACGTTable and
// upperMask below.
type NibbleLookupTable [16]byte

// Base2Bit codes, per spec.md §4.4.
const (
	Base2BitA = 0
	Base2BitC = 1
	Base2BitG = 2
	Base2BitT = 3
)

// base2BitTable maps an uppercased ASCII base to its 2-bit code; the
// validity of the lookup must be checked independently (this table has no
// "invalid" marker; index only with bytes known to be one of A/C/G/T).
var base2BitTable = [256]byte{
	'A': Base2BitA,
	'C': Base2BitC,
	'G': Base2BitG,
	'T': Base2BitT,
}

// isACGTTable marks which uppercased ASCII bytes are valid bases.
var isACGTTable = func() [256]bool {
	var t [256]bool
	t['A'] = true
	t['C'] = true
	t['G'] = true
	t['T'] = true
	return t
}()

// upperMask strips the 0x20 bit that distinguishes lower from upper-case
// ASCII letters, per spec.md's "case-insensitive (mask with 0xDF)" rule.
const upperMask = 0xDF
