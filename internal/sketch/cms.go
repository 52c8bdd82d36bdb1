// Package sketch implements the two bounded-memory sketches from
// spec.md §4.7-4.8: a fixed-width Count-Min sketch with saturating
// counters, and a generic Space-Saving top-K table.
package sketch


// CMSDepth and CMSWidth are the fixed dimensions from spec.md §4.6/§4.8.
const (
	CMSDepth = 4
	CMSWidth = 1 << 18
)

// depthConstants are odd 64-bit mixing constants, one per CMS row, XORed
// into the key before the SplitMix64-style finalizer runs (spec.md §4.8).
var depthConstants = [CMSDepth]uint64{
	0x9E3779B97F4A7C15,
	0xBF58476D1CE4E5B9,
	0x94D049BB133111EB,
	0xD6E8FEB86659FD93,
}

// splitMix64 is the standard SplitMix64 finalizer.
func splitMix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// CMS is a depth x width Count-Min sketch with saturating uint32 counters.
type CMS struct {
	table [CMSDepth][CMSWidth]uint32
}

// NewCMS allocates a zeroed Count-Min sketch.
func NewCMS() *CMS {
	return &CMS{}
}

func (c *CMS) indices(key uint64) [CMSDepth]uint32 {
	var idx [CMSDepth]uint32
	for d := 0; d < CMSDepth; d++ {
		h := splitMix64(key ^ depthConstants[d])
		idx[d] = uint32(h) & (CMSWidth - 1)
	}
	return idx
}

// Add increments every row's counter for key by w, saturating at
// MaxUint32.
func (c *CMS) Add(key uint64, w uint32) {
	idx := c.indices(key)
	for d := 0; d < CMSDepth; d++ {
		satAddInPlace(&c.table[d][idx[d]], w)
	}
}

// Estimate returns the minimum of the depth counters for key, an upper
// bound on the true count.
func (c *CMS) Estimate(key uint64) uint32 {
	idx := c.indices(key)
	min := c.table[0][idx[0]]
	for d := 1; d < CMSDepth; d++ {
		if v := c.table[d][idx[d]]; v < min {
			min = v
		}
	}
	return min
}

// Merge folds other into c with an index-wise saturating add.
func (c *CMS) Merge(other *CMS) {
	for d := 0; d < CMSDepth; d++ {
		for w := 0; w < CMSWidth; w++ {
			if other.table[d][w] != 0 {
				satAddInPlace(&c.table[d][w], other.table[d][w])
			}
		}
	}
}

func satAddInPlace(dst *uint32, w uint32) {
	sum := uint64(*dst) + uint64(w)
	if sum > 0xFFFFFFFF {
		*dst = 0xFFFFFFFF
		return
	}
	*dst = uint32(sum)
}
