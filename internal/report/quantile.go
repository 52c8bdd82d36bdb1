package report

import "math"

// quantileFromHist returns the smallest histogram bucket index i such that
// the cumulative count through i is at least ceil(q*total), per spec.md
// §4.10's `q(p) = smallest i with cum >= ceil(p*total)`.
func quantileFromHist(hist []uint64, q float64) int {
	var total uint64
	for _, v := range hist {
		total += v
	}
	if total == 0 {
		return 0
	}
	rank := uint64(math.Ceil(q * float64(total)))
	if rank < 1 {
		rank = 1
	}
	var cum uint64
	for i, v := range hist {
		cum += v
		if cum >= rank {
			return i
		}
	}
	return len(hist) - 1
}

// approxNxx approximates N50/N90-style length fractions from the eight
// log-scale length bins, using each bin's representative midpoint
// (spec.md §4.11): walk from the largest bin downward, accumulating
// bin_count*midpoint, and return the midpoint of the first bin whose
// running sum reaches frac*totalBases.
func approxNxx(bins [8]uint64, totalBases uint64, frac float64) uint64 {
	mids := [8]uint64{5, 55, 550, 5_500, 55_000, 550_000, 5_500_000, 10_000_000}
	target := uint64(float64(totalBases) * frac)
	var acc uint64
	for i := len(bins) - 1; i >= 0; i-- {
		acc += bins[i] * mids[i]
		if acc >= target {
			return mids[i]
		}
	}
	return 0
}
