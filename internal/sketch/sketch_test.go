package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCMSEstimateUpperBounds(t *testing.T) {
	c := NewCMS()
	c.Add(42, 5)
	c.Add(42, 3)
	assert.GreaterOrEqual(t, c.Estimate(42), uint32(8))
	// A key never added may still collide, but must never estimate below
	// its true count of zero... trivially true; the real guarantee is
	// the other direction (estimate >= true count), checked above.
}

func TestCMSMergeIsIndexWiseSaturatingAdd(t *testing.T) {
	a := NewCMS()
	b := NewCMS()
	a.Add(7, 10)
	b.Add(7, 20)
	a.Merge(b)
	assert.GreaterOrEqual(t, a.Estimate(7), uint32(30))
}

func TestCMSSaturates(t *testing.T) {
	c := NewCMS()
	c.Add(1, 0xFFFFFFFF)
	c.Add(1, 10)
	assert.Equal(t, uint32(0xFFFFFFFF), c.Estimate(1))
}

func TestSpaceSavingBasic(t *testing.T) {
	ss := New[uint64, struct{}](2)
	ss.Add(1, 5)
	ss.Add(2, 3)
	ss.Add(3, 1) // table full: evicts key 2 (min count 3)
	entries := ss.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.Error <= e.Count)
	}
}

func TestSpaceSavingErrorBound(t *testing.T) {
	ss := New[uint64, struct{}](3)
	for i := uint64(0); i < 100; i++ {
		ss.Add(i%5, 1) // 5 distinct keys, capacity 3: forces eviction
	}
	for _, e := range ss.Entries() {
		// true_count in [count-error, count]; since keys 0..4 each occur
		// 20 times, true count is always 20.
		assert.LessOrEqual(t, e.Error, e.Count)
		assert.True(t, 20 >= e.Count-e.Error)
		assert.True(t, 20 <= e.Count)
	}
}

func TestSpaceSavingMergeMatchesSingleTable(t *testing.T) {
	merged := New[uint64, struct{}](4)
	a := New[uint64, struct{}](4)
	b := New[uint64, struct{}](4)
	for i := uint64(0); i < 10; i++ {
		a.Add(i%3, 1)
		merged.Add(i%3, 1)
	}
	for i := uint64(0); i < 10; i++ {
		b.Add(i%3+1, 1)
		merged.Add(i%3+1, 1)
	}
	a.Merge(b)
	gotA := map[uint64]uint64{}
	for _, e := range a.Entries() {
		gotA[e.Key] = e.Count
	}
	gotMerged := map[uint64]uint64{}
	for _, e := range merged.Entries() {
		gotMerged[e.Key] = e.Count
	}
	assert.Equal(t, gotMerged, gotA)
}

func TestFNV1aUpperCaseInsensitive(t *testing.T) {
	assert.Equal(t, FNV1aUpper([]byte("acgt")), FNV1aUpper([]byte("ACGT")))
	assert.NotEqual(t, FNV1aUpper([]byte("ACGT")), FNV1aUpper([]byte("TGCA")))
}
