// Package fastqio turns a FASTQ input file into a stream of chunk-aligned
// byte slices (spec.md §4.2), either by memory-mapping the whole file or
// by reading it incrementally through a decompressing reader.
package fastqio

import (
	"bufio"
	"io"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"

	"github.com/kira-bio/kira-qc/internal/kiraerrors"
)

// Chunk is one chunk-aligned, record-complete slice of the input, along
// with its dense zero-based index.
type Chunk struct {
	Index int
	Bytes []byte
}

// Fingerprint hashes the chunk's bytes with the same FarmHash family
// fusion's k-mer index uses for its table keys, giving callers a cheap,
// collision-resistant way to confirm two chunkings of the same input
// produced byte-identical chunks without comparing the full slices.
func (c Chunk) Fingerprint() uint64 {
	return farm.Hash64WithSeed(c.Bytes, uint64(c.Index))
}

// nextChunkEnd is the boundary rule shared by both the mmap and the
// streamed producers: walk forward from start, counting LFs, and cut the
// chunk at the first LF on or after targetSize where the running line
// count is a multiple of 4 (spec.md §4.2). It never splits a record.
//
// Returns the end offset (exclusive) of the chunk, or len(buf) if the
// remaining bytes don't reach another 4-line boundary past targetSize.
func nextChunkEnd(buf []byte, start, targetSize int) (end int, lineCount int) {
	size := 0
	for i := start; i < len(buf); i++ {
		if buf[i] != '\n' {
			continue
		}
		lineCount++
		size = i + 1 - start
		if lineCount%4 == 0 && size >= targetSize {
			return i + 1, lineCount
		}
	}
	return len(buf), lineCount
}

// MappedSource holds a memory-mapped FASTQ file, shared read-only across
// every chunk produced from it. It carries no reference count: the closer
// returned by Open unmaps it, and must run only after every chunk derived
// from it has been consumed by its worker.
type MappedSource struct {
	data []byte
}

// MappedChunker walks a memory-mapped file and emits chunk-aligned slices
// that alias the mapping directly: no bytes are copied.
type MappedChunker struct {
	src       *MappedSource
	targetLen int
	offset    int
	index     int
}

// NewMappedChunker wraps an already-opened mapping.
func NewMappedChunker(src *MappedSource, targetSize int) *MappedChunker {
	return &MappedChunker{src: src, targetLen: targetSize}
}

// Next returns the next chunk, or ok=false at end of input. If the file
// ends mid-record (a trailing partial record whose line count is not a
// multiple of 4), err is ErrTruncatedInput.
func (c *MappedChunker) Next() (chunk Chunk, ok bool, err error) {
	buf := c.src.data
	if c.offset >= len(buf) {
		return Chunk{}, false, nil
	}
	end, lineCount := nextChunkEnd(buf, c.offset, c.targetLen)
	if end == len(buf) && lineCount%4 != 0 {
		return Chunk{}, false, kiraerrors.AtChunk(kiraerrors.KindFormat, kiraerrors.ErrTruncatedInput, c.index)
	}
	out := Chunk{Index: c.index, Bytes: buf[c.offset:end]}
	c.offset = end
	c.index++
	return out, true, nil
}

// StreamChunker reads chunk-aligned slices from an io.Reader (typically a
// gzip.Reader), maintaining a rolling buffer since reads don't align to
// record boundaries on their own. Each returned Chunk owns a private copy
// of its bytes, since the rolling buffer is reused across calls.
type StreamChunker struct {
	r         *bufio.Reader
	targetLen int
	index     int
	pending   []byte
	eof       bool
}

// NewStreamChunker wraps r (already decompressed, if the input was
// gzipped) with the chunk boundary rule applied over a growing buffer.
func NewStreamChunker(r io.Reader, targetSize int) *StreamChunker {
	return &StreamChunker{r: bufio.NewReaderSize(r, targetSize), targetLen: targetSize}
}

const streamReadBlock = 1 << 16

// Next returns the next chunk. Returned bytes are owned by the caller and
// independent of subsequent calls.
func (c *StreamChunker) Next() (chunk Chunk, ok bool, err error) {
	for {
		if len(c.pending) > 0 {
			if end, _ := nextChunkEnd(c.pending, 0, c.targetLen); end < len(c.pending) {
				out := make([]byte, end)
				copy(out, c.pending[:end])
				c.pending = c.pending[end:]
				chunk = Chunk{Index: c.index, Bytes: out}
				c.index++
				return chunk, true, nil
			}
		}
		if c.eof {
			if len(c.pending) == 0 {
				return Chunk{}, false, nil
			}
			if _, lineCount := nextChunkEnd(c.pending, 0, c.targetLen); lineCount%4 != 0 {
				return Chunk{}, false, kiraerrors.AtChunk(kiraerrors.KindFormat, kiraerrors.ErrTruncatedInput, c.index)
			}
			out := c.pending
			c.pending = nil
			chunk = Chunk{Index: c.index, Bytes: out}
			c.index++
			return chunk, true, nil
		}
		block := make([]byte, streamReadBlock)
		n, rerr := c.r.Read(block)
		if n > 0 {
			c.pending = append(c.pending, block[:n]...)
		}
		if rerr != nil {
			if rerr == io.EOF {
				c.eof = true
				continue
			}
			return Chunk{}, false, errors.E(rerr, "kira-qc: reading FASTQ stream")
		}
	}
}
