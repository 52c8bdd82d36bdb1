// Package fastqrec splits an already chunk-aligned byte slice into a
// sequence of FASTQ record views without copying, per spec.md §4.1.
package fastqrec

import (
	"github.com/grailbio/base/errors"

	"github.com/kira-bio/kira-qc/internal/kiraerrors"
)

// View is one FASTQ record as three slices into the owning chunk's
// backing array: no bytes are copied out of the chunk.
type View struct {
	ID   []byte
	Seq  []byte
	Qual []byte
}

// Splitter walks a chunk-aligned byte slice, producing one View per
// call to Next. A Splitter is not safe for concurrent use; one lives
// inside one worker's per-chunk aggregation call.
type Splitter struct {
	buf    []byte
	offset int
}

// NewSplitter wraps buf, which must begin on a record boundary and
// contain an integral number of 4-line records (the chunker's
// contract, spec.md §4.2).
func NewSplitter(buf []byte) *Splitter {
	return &Splitter{buf: buf}
}

// Next returns the next record view, or ok=false once the chunk is
// exhausted. err is non-nil only on malformed input; once it returns
// non-nil, subsequent calls keep returning the same error.
func (s *Splitter) Next() (v View, ok bool, err error) {
	if s.offset >= len(s.buf) {
		return View{}, false, nil
	}
	start := s.offset

	idLine, next, lerr := s.readLine(s.offset)
	if lerr != nil {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrIncompleteRecord, int64(start))
	}
	if len(idLine) == 0 || idLine[0] != '@' {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrBadIDLine, int64(start))
	}

	seqLine, next, lerr := s.readLine(next)
	if lerr != nil {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrIncompleteRecord, int64(start))
	}

	plusLine, next, lerr := s.readLine(next)
	if lerr != nil {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrIncompleteRecord, int64(start))
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrBadPlusLine, int64(start))
	}

	qualLine, next, lerr := s.readLine(next)
	if lerr != nil {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrIncompleteRecord, int64(start))
	}
	if len(seqLine) != len(qualLine) {
		return View{}, false, kiraerrors.AtOffset(kiraerrors.KindFormat, kiraerrors.ErrLenMismatch, int64(start))
	}

	s.offset = next
	return View{ID: idLine, Seq: seqLine, Qual: qualLine}, true, nil
}

// readLine returns the bytes of the line starting at from (LF and any
// preceding CR stripped), and the offset of the byte following the LF.
func (s *Splitter) readLine(from int) (line []byte, next int, err error) {
	if from >= len(s.buf) {
		return nil, 0, errShortRead
	}
	rest := s.buf[from:]
	lf := indexByte(rest, '\n')
	if lf < 0 {
		return nil, 0, errShortRead
	}
	end := lf
	if end > 0 && rest[end-1] == '\r' {
		end--
	}
	return rest[:end], from + lf + 1, nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

var errShortRead = errors.New("fastqrec: truncated FASTQ line")
