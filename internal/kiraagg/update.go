package kiraagg

import (
	"github.com/kira-bio/kira-qc/internal/adapter"
	"github.com/kira-bio/kira-qc/internal/fastqrec"
	"github.com/kira-bio/kira-qc/internal/simdbytes"
	"github.com/kira-bio/kira-qc/internal/sketch"
)

// overrepPrefixes is the classifier's own independent 12-byte contaminant
// list (spec.md §4.5's overrepresented-sequence module): distinct from
// adapter.Sequences, which the adapter-content module scans for instead.
// The two lists diverge on purpose (e.g. the Small RNA 5' entry here is
// "ATCTCGTATGCC", not the adapter automaton's "GTTCAGAGTTCTACAGTCCGACGATC"
// prefix) — kept as two separate lists rather than reconciled.
var overrepPrefixes = [5][]byte{
	[]byte("AGATCGGAAGAG"),
	[]byte("TGGAATTCTCGG"),
	[]byte("ATCTCGTATGCC"),
	[]byte("CTGTCTCTTATA"),
	[]byte("CGCCTTGGCCGT"),
}

const polyMinLen = 20

// ClassifyOverrep returns the overrepresented-sequence source label for
// seq: Poly-A/Poly-T take priority over Adapter, which takes priority
// over No Hit. Exported so the finalizer can re-derive a stored entry's
// source label without re-running Update.
func ClassifyOverrep(seq []byte) string {
	if isPoly(seq, 'A') {
		return "Poly-A"
	}
	if isPoly(seq, 'T') {
		return "Poly-T"
	}
	if simdbytes.PrefixScan(seq, overrepPrefixes[:]) {
		return "Adapter"
	}
	return "No Hit"
}

func isPoly(seq []byte, base byte) bool {
	if len(seq) < polyMinLen {
		return false
	}
	for _, b := range seq {
		if b&0xDF != base {
			return false
		}
	}
	return true
}

func trimSeq(seq []byte) []byte {
	if len(seq) <= OverrepSeqMaxLen {
		return append([]byte(nil), seq...)
	}
	out := make([]byte, OverrepSeqMaxLen)
	copy(out, seq[:OverrepSeqMaxLen])
	return out
}

// roundHalfUp computes round(100*n/l) using integer half-up rounding,
// matching original_source's "(n*100 + l/2) / l" percent formula.
func roundHalfUp(n, l int) int {
	if l == 0 {
		return 0
	}
	return (n*100 + l/2) / l
}

// Update folds one record into a, applying every always-on counter plus
// whichever mode-specific module set a.Mode selects (spec.md §4.5).
func (a *Agg) Update(v fastqrec.View) {
	l := len(v.Seq)
	if l == 0 {
		return
	}

	a.TotalReads++
	a.TotalBases += uint64(l)
	if l < a.MinLen {
		a.MinLen = l
	}
	if l > a.MaxLen {
		a.MaxLen = l
	}

	_, baseC, baseG, _, baseN := simdbytes.CountBases(v.Seq)
	a.GCBases += baseC + baseG
	a.NBases += baseN

	qualSum := simdbytes.SumQual(v.Qual, byte(a.PhredOffset))
	meanQ := clamp(int((qualSum+uint32(l)/2)/uint32(l)), 0, MaxQ)
	a.PerSeqMeanQHist[meanQ]++
	if meanQ < 20 {
		a.ReadsMeanQLt20++
	}
	gcPct := clamp(roundHalfUp(int(baseC+baseG), l), 0, 100)
	a.PerSeqGCHist[gcPct]++

	switch a.Mode {
	case ModeShort:
		a.updateShort(v, l)
	case ModeLong:
		a.updateLong(v, l)
	}
}

func (a *Agg) updateShort(v fastqrec.View, l int) {
	a.PerPosQual = ensurePosQual(a.PerPosQual, l)
	a.PerPosBase = ensurePosBase(a.PerPosBase, l)
	a.PerPosAdapter = ensurePosAdapter(a.PerPosAdapter, l)

	offset := byte(a.PhredOffset)
	for i := 0; i < l; i++ {
		q := v.Qual[i]
		if q > offset {
			qv := clamp(int(q-offset), 0, MaxQ)
			a.PerPosQual[i][qv]++
		} else {
			a.PerPosQual[i][0]++
		}
		if idx, ok := baseIdx(v.Seq[i]); ok {
			a.PerPosBase[i][idx]++
		}
	}

	a.LengthHist[l]++

	dupKey := sketch.FNV1aUpper(v.Seq)
	a.DupSS.Add(dupKey, 1)

	overrepKey := dupKey
	a.OverrepSS.AddWithPayload(overrepKey, 1, trimSeq(v.Seq))

	if adapter.PrefilterHit(v.Seq) {
		matches := adapter.Default().FindAll(v.Seq, nil)
		for _, m := range matches {
			if m.Start >= 0 && m.Start < l {
				a.PerPosAdapter[m.Start][m.Pattern%5]++
			}
		}
	}

	if l >= 7 {
		a.Kmer.Update(v.Seq)
	}
}

func (a *Agg) updateLong(v fastqrec.View, l int) {
	a.LongLenBins[longLenBinOf(l)]++

	_, _, _, _, n := simdbytes.CountBases(v.Seq)
	nPct := clamp(roundHalfUp(int(n), l), 0, 100)
	a.PerSeqNHist[nPct]++
	if nPct > 20 {
		a.ReadsNGt20++
	} else if nPct > 10 {
		a.ReadsNGt10++
	}

	if adapter.PrefilterHit(v.Seq) {
		matches := adapter.Default().FindAll(v.Seq, nil)
		seen := [5]bool{}
		for _, m := range matches {
			seen[m.Pattern] = true
		}
		for i, hit := range seen {
			if hit {
				a.AdapterReadsAny[i]++
			}
		}
	}
}
