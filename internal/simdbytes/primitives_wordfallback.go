//go:build !amd64

package simdbytes

// On non-amd64 platforms the word-parallel entry points fall back to the
// scalar reference implementation, keeping the exported API identical
// across platforms.
func WordParallelCountBases(seq []byte) (a, c, g, t, n uint64) { return CountBases(seq) }

func WordParallelSumQual(qual []byte, offset byte) uint32 { return SumQual(qual, offset) }

func WordParallelPrefixScan(seq []byte, prefixes [][]byte) bool { return PrefixScan(seq, prefixes) }

func WordParallelPack2Bit16(block []byte) (validMask uint16, packed uint32) {
	return Pack2Bit16(block)
}
