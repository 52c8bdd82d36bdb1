// Package adapter implements case-insensitive multi-pattern matching over
// the five fixed Illumina/SOLiD/Nextera adapter sequences (spec.md §6),
// used by the adapter-content module. The overrepresented-sequence
// classifier keeps its own prefix list and does not use this package.
package adapter

import (
	"sync"

	"github.com/kira-bio/kira-qc/internal/simdbytes"
)

// Sequences are the five fixed adapter sequences, in pattern-index order.
var Sequences = [5][]byte{
	[]byte("AGATCGGAAGAGCACACGTCTGAACTCCAGTCAC"),
	[]byte("TGGAATTCTCGGGTGCCAAGG"),
	[]byte("GTTCAGAGTTCTACAGTCCGACGATC"),
	[]byte("CTGTCTCTTATACACATCT"),
	[]byte("CGCCTTGGCCGTACAGCAG"),
}

// Names holds the display name for each index in Sequences.
var Names = [5]string{
	"Illumina Universal Adapter",
	"Illumina Small RNA 3' Adapter",
	"Illumina Small RNA 5' Adapter",
	"Nextera Transposase Sequence",
	"SOLiD Small RNA Adapter",
}

// prefixes are the first 8 bytes of each adapter, used by the prefilter
// (spec.md §4.5's "A prefilter may skip work when none of the five 8-byte
// prefixes appear").
var prefixes = [5][]byte{
	[]byte("AGATCGGA"),
	[]byte("TGGAATTC"),
	[]byte("GTTCAGAG"),
	[]byte("CTGTCTCT"),
	[]byte("CGCCTTGG"),
}

// node is one state of the Aho-Corasick trie, over the 4-symbol {A,C,G,T}
// alphabet (adapter sequences contain no ambiguity codes); any other byte
// falls through the fail link like a non-matching symbol.
type node struct {
	next    [4]int // child state index per base code, or -1
	fail    int
	matches []int // pattern indices ending at this state
}

// Automaton is an immutable, built-once Aho-Corasick matcher. It holds no
// mutable state after construction, so a single instance is safely shared
// across every worker goroutine (spec.md §9's "treat it as an immutable
// shared value created on first use").
type Automaton struct {
	nodes []node
}

// Match is one occurrence of a pattern in a scanned sequence.
type Match struct {
	Start   int
	Pattern int
}

func baseCode(b byte) (code int, ok bool) {
	switch b & 0xDF { // upper-case fold, matches simdbytes.upperMask
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	default:
		return 0, false
	}
}

// Build constructs the automaton over patterns via the standard
// trie-plus-failure-link algorithm (Aho & Corasick 1975): insert every
// pattern into a trie, then compute failure links with a breadth-first
// pass so that a mismatch resumes matching at the longest proper suffix
// of the current state that is also a trie prefix.
func Build(patterns [][]byte) *Automaton {
	a := &Automaton{nodes: []node{newNode()}}
	for pi, p := range patterns {
		a.insert(p, pi)
	}
	a.computeFailLinks()
	return a
}

func newNode() node {
	n := node{fail: 0}
	for i := range n.next {
		n.next[i] = -1
	}
	return n
}

func (a *Automaton) insert(pattern []byte, patternIdx int) {
	cur := 0
	for _, b := range pattern {
		code, ok := baseCode(b)
		if !ok {
			return // adapter sequences are pure ACGT; anything else can't match
		}
		if a.nodes[cur].next[code] == -1 {
			a.nodes = append(a.nodes, newNode())
			a.nodes[cur].next[code] = len(a.nodes) - 1
		}
		cur = a.nodes[cur].next[code]
	}
	a.nodes[cur].matches = append(a.nodes[cur].matches, patternIdx)
}

func (a *Automaton) computeFailLinks() {
	var queue []int
	root := &a.nodes[0]
	for code := range root.next {
		if root.next[code] == -1 {
			root.next[code] = 0
			continue
		}
		a.nodes[root.next[code]].fail = 0
		queue = append(queue, root.next[code])
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for code := 0; code < 4; code++ {
			child := a.nodes[cur].next[code]
			if child == -1 {
				a.nodes[cur].next[code] = a.nodes[a.nodes[cur].fail].next[code]
				continue
			}
			fail := a.nodes[cur].fail
			a.nodes[child].fail = a.nodes[fail].next[code]
			a.nodes[child].matches = append(a.nodes[child].matches, a.nodes[a.nodes[child].fail].matches...)
			queue = append(queue, child)
		}
	}
}

// FindAll scans seq and appends every match (pattern start position and
// pattern index) to dst, returning the extended slice. Matching is
// case-insensitive; non-ACGT bytes (e.g. 'N') simply fail to extend any
// pattern, matching the crate's ascii_case_insensitive Aho-Corasick
// behavior for the fixed ACGT-only adapter set.
func (a *Automaton) FindAll(seq []byte, dst []Match) []Match {
	state := 0
	for i, b := range seq {
		code, ok := baseCode(b)
		if !ok {
			state = 0
			continue
		}
		state = a.nodes[state].next[code]
		for _, pi := range a.nodes[state].matches {
			start := i - len(Sequences[pi]) + 1
			dst = append(dst, Match{Start: start, Pattern: pi})
		}
	}
	return dst
}

var (
	defaultOnce sync.Once
	defaultAC   *Automaton
)

// Default returns the lazily constructed, process-wide automaton over the
// five fixed adapter sequences.
func Default() *Automaton {
	defaultOnce.Do(func() {
		defaultAC = Build(Sequences[:])
	})
	return defaultAC
}

// PrefilterHit reports whether any of the five 8-byte adapter prefixes
// appear anywhere in seq, letting callers skip the full automaton scan for
// the common case of a read containing no adapter at all.
func PrefilterHit(seq []byte) bool {
	for _, p := range prefixes {
		if simdbytes.PrefixScan(seq, [][]byte{p}) {
			return true
		}
	}
	return false
}
