// Package kiraerrors defines the fatal error kinds the engine can report,
// and the single-slot "first error wins" accumulator used by the
// concurrent pipeline.
package kiraerrors

import (
	"fmt"
	"sync"

	"github.com/grailbio/base/errors"
)

// Kind enumerates the fatal error categories from spec.md §7.
type Kind int

const (
	// KindInput covers missing/unreadable/empty input and unsupported stdin.
	KindInput Kind = iota
	// KindFormat covers truncated records and malformed id/plus/seq/qual lines.
	KindFormat
	// KindDecompress covers gzip/bgzf decode failures.
	KindDecompress
	// KindConfig covers invalid configuration (threads < 1, bad flag values).
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindFormat:
		return "format"
	case KindDecompress:
		return "decompress"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinel format errors, carrying the byte offset (or chunk index, for
// streamed input where an absolute offset is unavailable) of the
// offending record via errors.E's arguments.
var (
	ErrIncompleteRecord = errors.New("kiraerrors: incomplete record")
	ErrBadIDLine        = errors.New("kiraerrors: id line does not start with '@'")
	ErrBadPlusLine      = errors.New("kiraerrors: plus line does not start with '+'")
	ErrLenMismatch      = errors.New("kiraerrors: seq/qual length mismatch")
	ErrTruncatedInput   = errors.New("kiraerrors: input ends mid-record")
	ErrEmptyInput       = errors.New("kiraerrors: empty input")
)

// AtOffset wraps err with the byte offset of the record that triggered it.
func AtOffset(kind Kind, err error, offset int64) error {
	return errors.E(kind.String(), fmt.Sprintf("offset %d", offset), err)
}

// AtChunk wraps err with the index of the chunk that triggered it, for the
// streamed chunker where an absolute input offset isn't tracked.
func AtChunk(kind Kind, err error, chunkIndex int) error {
	return errors.E(kind.String(), fmt.Sprintf("chunk %d", chunkIndex), err)
}

// FirstError is a single-slot "first error wins" accumulator, matching the
// semantics of the pipeline's errors channel (spec.md §5): the first Set
// call records the error; later calls are dropped. It mirrors the
// teacher's markduplicates.errors.Once usage, specialized to a capacity-1
// channel (exposed by Chan) that a reducer can select on alongside its
// results; that channel is never closed. Done is a broadcast signal, closed
// alongside the first Set, so any number of other goroutines (a producer
// or worker pool blocked on a channel send) can select on it to abort
// without racing each other for the single buffered error value.
type FirstError struct {
	once sync.Once
	ch   chan error
	done chan struct{}
}

// NewFirstError creates a ready-to-use FirstError.
func NewFirstError() *FirstError {
	return &FirstError{ch: make(chan error, 1), done: make(chan struct{})}
}

// Set records err as the first error, if none has been recorded yet.
// Subsequent calls (including with nil) are no-ops.
func (f *FirstError) Set(err error) {
	if err == nil {
		return
	}
	f.once.Do(func() {
		f.ch <- err
		close(f.done)
	})
}

// Chan exposes the underlying channel for use in a select alongside a
// results channel, as the reducer does.
func (f *FirstError) Chan() <-chan error {
	return f.ch
}

// Done returns a channel closed as soon as the first error is recorded,
// for goroutines that only need to know an error happened, not what it
// was, so they can stop blocking on a send/receive and exit.
func (f *FirstError) Done() <-chan struct{} {
	return f.done
}
