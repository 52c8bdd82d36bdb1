package sketch

import (
	"container/heap"
	"sort"

	"golang.org/x/exp/constraints"
)

// Entry is one reported row of a SpaceSaving table: the Space-Saving
// guarantee is count-error <= trueCount <= count (spec.md §4.7).
type Entry[K constraints.Ordered, P any] struct {
	Key     K
	Count   uint64
	Error   uint64
	Payload P
}

// slot holds the live state for one occupied table row.
type slot[K constraints.Ordered, P any] struct {
	key     K
	count   uint64
	errv    uint64
	payload P
	used    bool
}

// heapItem is a lazy min-heap snapshot: (count, key, slot index). Snapshots
// are validated against the live slot on pop, and stale ones (slot
// reassigned or count advanced since the snapshot was pushed) are
// discarded rather than acted on, per DESIGN NOTES §9.
type heapItem[K constraints.Ordered] struct {
	count    uint64
	key      K
	slotIdx  int
}

type minHeap[K constraints.Ordered] []heapItem[K]

func (h minHeap[K]) Len() int            { return len(h) }
func (h minHeap[K]) Less(i, j int) bool  { return h[i].count < h[j].count }
func (h minHeap[K]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap[K]) Push(x interface{}) { *h = append(*h, x.(heapItem[K])) }
func (h *minHeap[K]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SpaceSaving is a fixed-capacity streaming top-K table keyed by K, with an
// optional payload carried alongside each key (used by the
// overrepresented-sequence module to retain a truncated copy of the read).
// It is not safe for concurrent use; one instance lives inside one
// aggregator or one merged global aggregate.
type SpaceSaving[K constraints.Ordered, P any] struct {
	capacity int
	slots    []slot[K, P]
	index    map[K]int
	heap     minHeap[K]
}

// New creates a Space-Saving table with the given capacity.
func New[K constraints.Ordered, P any](capacity int) *SpaceSaving[K, P] {
	return &SpaceSaving[K, P]{
		capacity: capacity,
		slots:    make([]slot[K, P], 0, capacity),
		index:    make(map[K]int, capacity),
	}
}

// Add applies the Space-Saving update rule for (key, w), per spec.md §4.7.
func (s *SpaceSaving[K, P]) Add(key K, w uint64) {
	var zero P
	s.add(key, w, zero, false)
}

// AddWithPayload behaves like Add, but additionally stores payload whenever
// key enters the table as a new entry, including when it takes over an
// evicted key's slot; an existing entry's payload is left untouched.
func (s *SpaceSaving[K, P]) AddWithPayload(key K, w uint64, payload P) {
	s.add(key, w, payload, true)
}

func (s *SpaceSaving[K, P]) add(key K, w uint64, payload P, hasPayload bool) {
	if idx, ok := s.index[key]; ok {
		sl := &s.slots[idx]
		sl.count += w
		heap.Push(&s.heap, heapItem[K]{count: sl.count, key: sl.key, slotIdx: idx})
		return
	}
	if len(s.slots) < s.capacity {
		idx := len(s.slots)
		sl := slot[K, P]{key: key, count: w, errv: 0, used: true}
		if hasPayload {
			sl.payload = payload
		}
		s.slots = append(s.slots, sl)
		s.index[key] = idx
		heap.Push(&s.heap, heapItem[K]{count: w, key: key, slotIdx: idx})
		return
	}
	// Table full: evict the current minimum-count entry.
	idx, minCount := s.popMin()
	old := s.slots[idx]
	delete(s.index, old.key)
	newEntry := slot[K, P]{key: key, count: minCount + w, errv: minCount, used: true}
	if hasPayload {
		newEntry.payload = payload
	}
	s.slots[idx] = newEntry
	s.index[key] = idx
	heap.Push(&s.heap, heapItem[K]{count: newEntry.count, key: key, slotIdx: idx})
}

// popMin pops entries off the lazy heap until it finds one whose snapshot
// still matches the live slot, discarding stale snapshots along the way.
func (s *SpaceSaving[K, P]) popMin() (idx int, count uint64) {
	for s.heap.Len() > 0 {
		item := heap.Pop(&s.heap).(heapItem[K])
		sl := s.slots[item.slotIdx]
		if sl.used && sl.key == item.key && sl.count == item.count {
			return item.slotIdx, sl.count
		}
	}
	// Heap exhausted without a valid minimum: every slot's snapshot was
	// superseded. Fall back to a linear scan (should not happen with
	// correct bookkeeping, but keeps Add total).
	minIdx, minCount := 0, s.slots[0].count
	for i := 1; i < len(s.slots); i++ {
		if s.slots[i].count < minCount {
			minIdx, minCount = i, s.slots[i].count
		}
	}
	return minIdx, minCount
}

// Len returns the number of occupied slots.
func (s *SpaceSaving[K, P]) Len() int { return len(s.slots) }

// Entries returns a snapshot of all occupied rows, in ascending key order
// (the order Merge relies on for determinism).
func (s *SpaceSaving[K, P]) Entries() []Entry[K, P] {
	out := make([]Entry[K, P], 0, len(s.slots))
	for _, sl := range s.slots {
		if !sl.used {
			continue
		}
		out = append(out, Entry[K, P]{Key: sl.key, Count: sl.count, Error: sl.errv, Payload: sl.payload})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Merge applies Add(key, count) for every entry of other, iterating in
// ascending key order so the result is independent of the caller's
// iteration/insertion history (spec.md §4.7, §4.9, DESIGN NOTES §9).
func (s *SpaceSaving[K, P]) Merge(other *SpaceSaving[K, P]) {
	for _, e := range other.Entries() {
		s.AddWithPayload(e.Key, e.Count, e.Payload)
	}
}
