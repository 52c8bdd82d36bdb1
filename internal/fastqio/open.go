package fastqio

import (
	"bytes"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/klauspost/compress/gzip"

	"github.com/kira-bio/kira-qc/internal/kiraerrors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Producer is satisfied by both MappedChunker and StreamChunker.
type Producer interface {
	Next() (Chunk, bool, error)
}

// Open picks the chunking strategy for path: plain FASTQ files are
// memory-mapped directly (zero-copy chunks); gzip-compressed files are
// read through a decompressing stream, since a compressed file's offsets
// don't correspond to uncompressed record boundaries (spec.md §4.2's
// "streamed input holds one chunk's worth in the producer's rolling
// buffer"). The returned closer must be invoked once chunking completes.
func Open(path string, targetSize int) (p Producer, closer func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.E(err, "kira-qc: opening input", path)
	}

	magic := make([]byte, 2)
	n, _ := io.ReadFull(f, magic)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		f.Close()
		return nil, nil, errors.E(serr, "kira-qc: seeking input", path)
	}

	if n == 2 && bytes.Equal(magic, gzipMagic) {
		gz, gerr := gzip.NewReader(f)
		if gerr != nil {
			f.Close()
			return nil, nil, errors.E(kiraerrors.KindDecompress.String(), gerr, "kira-qc: opening gzip stream", path)
		}
		sc := NewStreamChunker(gz, targetSize)
		return sc, func() error {
			gz.Close()
			return f.Close()
		}, nil
	}

	f.Close()
	src, merr := openMapped(path)
	if merr != nil {
		return nil, nil, errors.E(merr, "kira-qc: mapping input", path)
	}
	mc := NewMappedChunker(src, targetSize)
	return mc, src.close, nil
}
