// Package report turns a merged kiraagg.Agg into the finalized per-module
// tables and status verdicts of spec.md §4.10-4.11, and renders them to
// the output artifacts named in spec.md §6.
package report

import (
	"sort"

	"github.com/kira-bio/kira-qc/internal/adapter"
	"github.com/kira-bio/kira-qc/internal/kiraagg"
	"github.com/kira-bio/kira-qc/internal/kmer"
)

// Renderer turns a finalized Metrics snapshot into one or more files under
// dir. Concrete renderers (TextRenderer, ZipRenderer, HTMLRenderer,
// LatexRenderer) each own one output artifact.
type Renderer interface {
	Render(dir string, m *Metrics) error
}

// Status is a module's pass/warn/fail verdict.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "pass"
	}
}

// BasicStats is the always-PASS Basic Statistics module.
type BasicStats struct {
	FileType           string
	Encoding           string
	TotalSequences     uint64
	FilteredSequences  uint64
	MinLen             int
	MaxLen             int
	GCPercent          uint32
}

type PerBaseQualRow struct {
	Base                                        int
	Mean                                        float64
	Median, LowerQuartile, UpperQuartile        int
	P10, P90                                    int
}

type PerSeqQualRow struct {
	MeanQ int
	Count uint64
}

type PerBaseContentRow struct {
	Base          int
	G, A, T, C    float64
}

type PerSeqGCRow struct {
	GC    int
	Count uint64
}

type PerBaseNRow struct {
	Base      int
	NPercent  float64
}

type PerSeqNRow struct {
	NPercent int
	Count    uint64
}

type LengthDistRow struct {
	Length int
	Count  uint64
}

// DupLevel labels a duplication-count bucket, 1 through "7+".
type DupLevel int

const (
	DupOne DupLevel = iota
	DupTwo
	DupThree
	DupFour
	DupFive
	DupSix
	DupSevenPlus
)

func (d DupLevel) String() string {
	names := [7]string{"1", "2", "3", "4", "5", "6", "7+"}
	return names[d]
}

type DuplicationRow struct {
	Level    DupLevel
	Relative float64
}

type OverrepRow struct {
	Sequence string
	Count    uint64
	Percent  float64
	Source   string
}

type AdapterRow struct {
	Position int
	Values   [5]float64
}

// LongLength is the long-mode length-distribution summary (spec.md §4.11).
type LongLength struct {
	Bins       [8]uint64
	Labels     [8]string
	Min, Max   int
	Mean       float64
	N50, N90   uint64
}

var longLenLabels = [8]string{
	"1-9", "10-99", "100-999", "1k-9k", "10k-99k", "100k-999k", "1M-9M", "10M+",
}

// Statuses collects the per-module verdicts.
type Statuses struct {
	Basic            Status
	PerBaseQual      Status
	PerSeqQual       Status
	PerBaseContent   Status
	PerSeqGC         Status
	PerBaseN         Status
	LengthDist       Status
	Duplication      Status
	Overrepresented  Status
	AdapterContent   Status
	PerSeqN          Status
	KmerContent      Status
}

// Metrics is the finalized, immutable output of one run: every module
// table plus its status, ready for rendering.
type Metrics struct {
	FileName   string
	SampleName string
	Mode       kiraagg.Mode

	Basic           BasicStats
	PerBaseQual     []PerBaseQualRow
	PerSeqQual      []PerSeqQualRow
	PerBaseContent  []PerBaseContentRow
	PerSeqGC        []PerSeqGCRow
	PerBaseN        []PerBaseNRow
	PerSeqN         []PerSeqNRow
	LengthDist      []LengthDistRow
	LongLength      *LongLength
	Duplication     []DuplicationRow
	Overrepresented []OverrepRow
	AdapterContent  []AdapterRow
	KmerRows        []kmer.Row

	Statuses Statuses
}

// Finalize turns agg into a Metrics snapshot (spec.md §4.10), given the
// display names. The reported encoding string is picked from the Phred
// offset stored in agg.
func Finalize(agg *kiraagg.Agg, fileName, sampleName string) *Metrics {
	m := &Metrics{FileName: fileName, SampleName: sampleName, Mode: agg.Mode}

	minLen, maxLen := agg.MinLen, agg.MaxLen
	if agg.TotalReads == 0 {
		minLen, maxLen = 0, 0
	}
	var gcPercent uint32
	if agg.TotalBases > 0 {
		gcPercent = uint32((agg.GCBases*100 + agg.TotalBases/2) / agg.TotalBases)
	}
	encoding := "Sanger / Illumina 1.9"
	if agg.PhredOffset == 64 {
		encoding = "Illumina 1.5"
	}
	m.Basic = BasicStats{
		FileType:          "Conventional base calls",
		Encoding:          encoding,
		TotalSequences:    agg.TotalReads,
		FilteredSequences: 0,
		MinLen:            minLen,
		MaxLen:            maxLen,
		GCPercent:         gcPercent,
	}

	m.finalizePerSeqQuality(agg)
	m.finalizePerSeqGC(agg)

	if agg.Mode == kiraagg.ModeShort {
		m.finalizeShort(agg)
	} else {
		m.finalizeLong(agg, minLen, maxLen)
	}

	return m
}

func (m *Metrics) finalizePerSeqQuality(agg *kiraagg.Agg) {
	for q, count := range agg.PerSeqMeanQHist {
		if count > 0 {
			m.PerSeqQual = append(m.PerSeqQual, PerSeqQualRow{MeanQ: q, Count: count})
		}
	}
	if agg.Mode == kiraagg.ModeShort {
		if agg.TotalReads > 0 {
			low := float64(agg.ReadsMeanQLt20) / float64(agg.TotalReads) * 100.0
			switch {
			case low > 20.0:
				m.Statuses.PerSeqQual = StatusFail
			case low > 10.0:
				m.Statuses.PerSeqQual = StatusWarn
			}
		}
		return
	}
	median := quantileFromHist(agg.PerSeqMeanQHist[:], 0.5)
	switch {
	case median < 7:
		m.Statuses.PerSeqQual = StatusFail
	case median < 10:
		m.Statuses.PerSeqQual = StatusWarn
	}
}

func (m *Metrics) finalizePerSeqGC(agg *kiraagg.Agg) {
	for gc, count := range agg.PerSeqGCHist {
		if count > 0 {
			m.PerSeqGC = append(m.PerSeqGC, PerSeqGCRow{GC: gc, Count: count})
		}
	}
}

func (m *Metrics) finalizeShort(agg *kiraagg.Agg) {
	m.finalizePerBaseQual(agg)
	m.finalizePerBaseContentAndN(agg)
	m.finalizeLengthDist(agg)
	m.finalizeDuplication(agg)
	m.finalizeOverrepresented(agg)
	m.finalizeAdapterShort(agg)
	m.finalizeKmer(agg)
}

func (m *Metrics) finalizePerBaseQual(agg *kiraagg.Agg) {
	m.PerBaseQual = make([]PerBaseQualRow, len(agg.PerPosQual))
	for i, hist := range agg.PerPosQual {
		var total, sum uint64
		for q, c := range hist {
			total += c
			sum += c * uint64(q)
		}
		var mean float64
		if total > 0 {
			mean = float64(sum) / float64(total)
		}
		row := PerBaseQualRow{
			Base:           i + 1,
			Mean:           mean,
			Median:         quantileFromHist(hist[:], 0.5),
			LowerQuartile:  quantileFromHist(hist[:], 0.25),
			UpperQuartile:  quantileFromHist(hist[:], 0.75),
			P10:            quantileFromHist(hist[:], 0.10),
			P90:            quantileFromHist(hist[:], 0.90),
		}
		m.PerBaseQual[i] = row
		switch {
		case row.Median < 20:
			m.Statuses.PerBaseQual = StatusFail
		case row.Median < 25 && m.Statuses.PerBaseQual != StatusFail:
			m.Statuses.PerBaseQual = StatusWarn
		}
	}
}

func (m *Metrics) finalizePerBaseContentAndN(agg *kiraagg.Agg) {
	m.PerBaseContent = make([]PerBaseContentRow, len(agg.PerPosBase))
	m.PerBaseN = make([]PerBaseNRow, len(agg.PerPosBase))
	var maxDeviation, maxNPercent float64
	for i, bc := range agg.PerPosBase {
		a, c, g, t, n := bc[0], bc[1], bc[2], bc[3], bc[4]
		denom := a + c + g + t
		var gPct, aPct, tPct, cPct float64
		if denom > 0 {
			d := float64(denom)
			gPct = float64(g) * 100.0 / d
			aPct = float64(a) * 100.0 / d
			tPct = float64(t) * 100.0 / d
			cPct = float64(c) * 100.0 / d
			for _, v := range [4]float64{gPct, aPct, tPct, cPct} {
				if dev := abs(v - 25.0); dev > maxDeviation {
					maxDeviation = dev
				}
			}
		}
		m.PerBaseContent[i] = PerBaseContentRow{Base: i + 1, G: gPct, A: aPct, T: tPct, C: cPct}

		total := denom + n
		var nPct float64
		if total > 0 {
			nPct = float64(n) * 100.0 / float64(total)
		}
		if nPct > maxNPercent {
			maxNPercent = nPct
		}
		m.PerBaseN[i] = PerBaseNRow{Base: i + 1, NPercent: nPct}
	}
	switch {
	case maxDeviation > 20.0:
		m.Statuses.PerBaseContent = StatusFail
	case maxDeviation > 10.0:
		m.Statuses.PerBaseContent = StatusWarn
	}
	switch {
	case maxNPercent > 20.0:
		m.Statuses.PerBaseN = StatusFail
	case maxNPercent > 5.0:
		m.Statuses.PerBaseN = StatusWarn
	}
}

func (m *Metrics) finalizeLengthDist(agg *kiraagg.Agg) {
	lengths := make([]int, 0, len(agg.LengthHist))
	for l := range agg.LengthHist {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	for _, l := range lengths {
		if l > 0 {
			m.LengthDist = append(m.LengthDist, LengthDistRow{Length: l, Count: agg.LengthHist[l]})
		}
	}
}

func (m *Metrics) finalizeDuplication(agg *kiraagg.Agg) {
	var dupCounts [7]uint64
	var trackedTotal uint64
	for _, e := range agg.DupSS.Entries() {
		trackedTotal += e.Count
		idx := 6
		if e.Count < 7 {
			idx = int(e.Count) - 1
			if idx < 0 {
				idx = 0
			}
		}
		dupCounts[idx] += e.Count
	}
	if trackedTotal > agg.TotalReads {
		trackedTotal = agg.TotalReads
	}
	uniqueExtra := agg.TotalReads - trackedTotal
	dupCounts[0] += uniqueExtra

	totalReads := agg.TotalReads
	if totalReads == 0 {
		totalReads = 1
	}
	for i := 0; i < 7; i++ {
		m.Duplication = append(m.Duplication, DuplicationRow{
			Level:    DupLevel(i),
			Relative: float64(dupCounts[i]) / float64(totalReads),
		})
	}
	duplicatedReads := totalReads - dupCounts[0]
	duplicatedPct := float64(duplicatedReads) * 100.0 / float64(totalReads)
	switch {
	case duplicatedPct > 80.0:
		m.Statuses.Duplication = StatusFail
	case duplicatedPct > 50.0:
		m.Statuses.Duplication = StatusWarn
	}
}

func (m *Metrics) finalizeOverrepresented(agg *kiraagg.Agg) {
	totalReads := agg.TotalReads
	if totalReads == 0 {
		totalReads = 1
	}
	warnHit := false
	for _, e := range agg.OverrepSS.Entries() {
		if e.Count == 0 {
			continue
		}
		pct := float64(e.Count) * 100.0 / float64(totalReads)
		switch {
		case pct >= 0.1:
			m.Overrepresented = append(m.Overrepresented, OverrepRow{
				Sequence: string(e.Payload),
				Count:    e.Count,
				Percent:  pct,
				Source:   kiraagg.ClassifyOverrep(e.Payload),
			})
			m.Statuses.Overrepresented = StatusFail
		case pct >= 0.05:
			warnHit = true
		}
	}
	if m.Statuses.Overrepresented == StatusPass && warnHit {
		m.Statuses.Overrepresented = StatusWarn
	}
	sort.Slice(m.Overrepresented, func(i, j int) bool {
		if m.Overrepresented[i].Count != m.Overrepresented[j].Count {
			return m.Overrepresented[i].Count > m.Overrepresented[j].Count
		}
		return m.Overrepresented[i].Sequence < m.Overrepresented[j].Sequence
	})
}

func (m *Metrics) finalizeAdapterShort(agg *kiraagg.Agg) {
	totalReads := agg.TotalReads
	if totalReads == 0 {
		totalReads = 1
	}
	for i, counts := range agg.PerPosAdapter {
		var values [5]float64
		for j, c := range counts {
			pct := float64(c) * 100.0 / float64(totalReads)
			values[j] = pct
			switch {
			case pct > 10.0:
				m.Statuses.AdapterContent = StatusFail
			case pct > 5.0 && m.Statuses.AdapterContent != StatusFail:
				m.Statuses.AdapterContent = StatusWarn
			}
		}
		m.AdapterContent = append(m.AdapterContent, AdapterRow{Position: i + 1, Values: values})
	}
}

func (m *Metrics) finalizeKmer(agg *kiraagg.Agg) {
	if agg.Kmer == nil || agg.Kmer.Total == 0 {
		return
	}
	keySeen := make(map[uint64]bool)
	var keys []uint64
	for _, hh := range agg.Kmer.HH {
		for _, e := range hh.Entries() {
			if !keySeen[e.Key] {
				keySeen[e.Key] = true
				keys = append(keys, e.Key)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var rows []kmer.Row
	for _, key := range keys {
		var totalEst uint64
		for b := 0; b < kmer.Bins; b++ {
			totalEst += uint64(agg.Kmer.CMS[b].Estimate(key))
		}
		if totalEst == 0 {
			continue
		}
		expected := float64(totalEst) / float64(agg.Kmer.Total)
		if expected == 0 {
			continue
		}
		var maxObs float64
		var maxBin int
		for b := 0; b < kmer.Bins; b++ {
			binTotal := float64(agg.Kmer.BinCounts[b])
			if binTotal == 0 {
				continue
			}
			obs := float64(agg.Kmer.CMS[b].Estimate(key)) / binTotal
			obsExp := obs / expected
			if obsExp > maxObs {
				maxObs = obsExp
				maxBin = b
			}
		}
		if maxObs >= 3.0 {
			switch {
			case maxObs >= 5.0:
				m.Statuses.KmerContent = StatusFail
			case m.Statuses.KmerContent != StatusFail:
				m.Statuses.KmerContent = StatusWarn
			}
			rows = append(rows, kmer.Row{
				Sequence: kmer.DecodeKmer(key),
				Count:    totalEst,
				PValue:   kmer.ComputePValue(maxObs),
				ObsExp:   maxObs,
				MaxPos:   kmer.BinMidPercent(maxBin),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ObsExp > rows[j].ObsExp })
	m.KmerRows = kmer.SelectTop(rows)
}

func (m *Metrics) finalizeLong(agg *kiraagg.Agg, minLen, maxLen int) {
	m.LongLength = buildLongLength(agg.LongLenBins, agg.TotalReads, agg.TotalBases, minLen, maxLen)

	for n, count := range agg.PerSeqNHist {
		if count > 0 {
			m.PerSeqN = append(m.PerSeqN, PerSeqNRow{NPercent: n, Count: count})
		}
	}
	if agg.TotalReads > 0 {
		gt20 := float64(agg.ReadsNGt20) / float64(agg.TotalReads) * 100.0
		gt10 := float64(agg.ReadsNGt10) / float64(agg.TotalReads) * 100.0
		switch {
		case gt20 > 5.0:
			m.Statuses.PerSeqN = StatusFail
		case gt10 > 5.0:
			m.Statuses.PerSeqN = StatusWarn
		}
	}

	totalReads := agg.TotalReads
	if totalReads == 0 {
		totalReads = 1
	}
	var values [5]float64
	for i, c := range agg.AdapterReadsAny {
		pct := float64(c) * 100.0 / float64(totalReads)
		values[i] = pct
		switch {
		case pct > 10.0:
			m.Statuses.AdapterContent = StatusFail
		case pct > 5.0 && m.Statuses.AdapterContent != StatusFail:
			m.Statuses.AdapterContent = StatusWarn
		}
	}
	m.AdapterContent = append(m.AdapterContent, AdapterRow{Position: 1, Values: values})
}

func buildLongLength(bins [8]uint64, totalReads, totalBases uint64, minLen, maxLen int) *LongLength {
	var mean float64
	if totalReads > 0 {
		mean = float64(totalBases) / float64(totalReads)
	}
	return &LongLength{
		Bins:   bins,
		Labels: longLenLabels,
		Min:    minLen,
		Max:    maxLen,
		Mean:   mean,
		N50:    approxNxx(bins, totalBases, 0.5),
		N90:    approxNxx(bins, totalBases, 0.9),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// AdapterNames exposes the five adapter display names for renderers.
func AdapterNames() [5]string {
	return adapter.Names
}
