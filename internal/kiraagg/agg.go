// Package kiraagg implements the per-chunk aggregator and its merge into a
// global aggregate (spec.md §4.5, §4.9): the counters, histograms, and
// sketches that a worker updates per record, and the commutative merge the
// reducer applies across every chunk's partial result.
package kiraagg

import (
	"github.com/kira-bio/kira-qc/internal/kmer"
	"github.com/kira-bio/kira-qc/internal/sketch"
)

// MaxQ is the maximum Phred quality score tracked by any histogram.
const MaxQ = 93

// DupCapacity and OverrepCapacity size the two global Space-Saving tables
// (not per-bin like the k-mer engine's HHK): large enough to retain the
// heavy hitters of a multi-million-read run without unbounded growth.
const (
	DupCapacity      = 200_000
	OverrepCapacity  = 200_000
	OverrepSeqMaxLen = 150
)

// baseIdx maps an (case-folded) sequence byte to a position in the 5-slot
// per-position base arrays (A, C, G, T, N); ok is false for any other byte,
// which is ignored the same way count_bases ignores non-ACGTN bytes.
func baseIdx(b byte) (idx int, ok bool) {
	switch b & 0xDF {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	case 'N':
		return 4, true
	default:
		return 0, false
	}
}

// Agg holds every counter, histogram, and sketch the engine tracks. The
// same shape serves as both a worker's PartialAgg (one per chunk) and the
// reducer's GlobalAgg (spec.md §3): the two are distinguished only by
// lifecycle, not by type.
type Agg struct {
	Mode        Mode
	PhredOffset int

	TotalReads uint64
	TotalBases uint64
	MinLen     int
	MaxLen     int
	GCBases    uint64
	NBases     uint64

	PerSeqMeanQHist [MaxQ + 1]uint64
	ReadsMeanQLt20  uint64
	PerSeqGCHist    [101]uint64

	// Short-mode fields. Per-position slices grow lazily to the longest
	// read seen so far; merging two Aggs size-expands to the max length.
	PerPosQual    [][MaxQ + 1]uint64
	PerPosBase    [][5]uint64
	PerPosAdapter [][5]uint64
	LengthHist    map[int]uint64

	DupSS     *sketch.SpaceSaving[uint64, struct{}]
	OverrepSS *sketch.SpaceSaving[uint64, []byte]

	Kmer *kmer.Engine

	// Long-mode fields.
	LongLenBins     [8]uint64
	PerSeqNHist     [101]uint64
	ReadsNGt20      uint64
	ReadsNGt10      uint64
	AdapterReadsAny [5]uint64
}

// Mode mirrors kiraconfig.Mode without importing it, avoiding a dependency
// cycle between configuration and aggregation; the CLI (cmd/kira/cmd)
// translates kiraconfig.Mode into kiraagg.Mode once at startup.
type Mode int

const (
	// ModeShort runs the short-read module set.
	ModeShort Mode = iota
	// ModeLong runs the long-read module set.
	ModeLong
)

// New allocates an empty aggregate for the given mode and Phred offset.
// MinLen starts at MaxInt so the first record always lowers it.
func New(mode Mode, phredOffset int) *Agg {
	a := &Agg{
		Mode:        mode,
		PhredOffset: phredOffset,
		MinLen:      int(^uint(0) >> 1),
	}
	if mode == ModeShort {
		a.LengthHist = make(map[int]uint64)
		a.DupSS = sketch.New[uint64, struct{}](DupCapacity)
		a.OverrepSS = sketch.New[uint64, []byte](OverrepCapacity)
		a.Kmer = kmer.NewEngine()
	}
	return a
}

// longLenBinOf buckets a read length into the eight log bins from spec.md
// §4.5: [1-9], [10-99], [100-999], ..., [10_000_000, inf).
func longLenBinOf(l int) int {
	switch {
	case l < 10:
		return 0
	case l < 100:
		return 1
	case l < 1000:
		return 2
	case l < 10000:
		return 3
	case l < 100000:
		return 4
	case l < 1000000:
		return 5
	case l < 10000000:
		return 6
	default:
		return 7
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ensurePosQual grows dst to length l, zero-extending, and returns the
// (possibly reallocated) slice.
func ensurePosQual(dst [][MaxQ + 1]uint64, l int) [][MaxQ + 1]uint64 {
	if len(dst) >= l {
		return dst
	}
	grown := make([][MaxQ + 1]uint64, l)
	copy(grown, dst)
	return grown
}

func ensurePosBase(dst [][5]uint64, l int) [][5]uint64 {
	if len(dst) >= l {
		return dst
	}
	grown := make([][5]uint64, l)
	copy(grown, dst)
	return grown
}

func ensurePosAdapter(dst [][5]uint64, l int) [][5]uint64 {
	if len(dst) >= l {
		return dst
	}
	grown := make([][5]uint64, l)
	copy(grown, dst)
	return grown
}
