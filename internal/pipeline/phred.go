package pipeline

import (
	"github.com/kira-bio/kira-qc/internal/fastqio"
	"github.com/kira-bio/kira-qc/internal/fastqrec"
	"github.com/kira-bio/kira-qc/internal/kiraconfig"
	"github.com/kira-bio/kira-qc/internal/kiraerrors"
)

// DetectPhredOffset scans up to kiraconfig.AutoDetectReads records from the
// head of path, tracking the minimum and maximum raw quality byte seen, and
// applies the engine's offset heuristic (spec.md §4.3): phred33 encodings
// run low on the ASCII scale, phred64 clusters high, and the boundary case
// (min in [59,64)) is broken by whether the maximum byte is still
// plausible as phred33.
func DetectPhredOffset(path string, chunkSize int) (int, error) {
	p, closer, err := fastqio.Open(path, chunkSize)
	if err != nil {
		return 0, err
	}
	defer closer()

	minQ, maxQ := byte(255), byte(0)
	seen := 0
	for seen < kiraconfig.AutoDetectReads {
		chunk, ok, cerr := p.Next()
		if cerr != nil {
			return 0, cerr
		}
		if !ok {
			break
		}
		sp := fastqrec.NewSplitter(chunk.Bytes)
		for seen < kiraconfig.AutoDetectReads {
			v, ok, verr := sp.Next()
			if verr != nil {
				return 0, verr
			}
			if !ok {
				break
			}
			for _, q := range v.Qual {
				if q < minQ {
					minQ = q
				}
				if q > maxQ {
					maxQ = q
				}
			}
			seen++
		}
	}
	if seen == 0 {
		return 0, kiraerrors.AtChunk(kiraerrors.KindInput, kiraerrors.ErrEmptyInput, 0)
	}

	switch {
	case minQ < 59:
		return 33, nil
	case minQ >= 64:
		return 64, nil
	case maxQ <= 74:
		return 33, nil
	default:
		return 64, nil
	}
}
