package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-bio/kira-qc/internal/fastqrec"
	"github.com/kira-bio/kira-qc/internal/kiraagg"
)

func rec(seq, qual string) fastqrec.View {
	return fastqrec.View{ID: []byte("@r"), Seq: []byte(seq), Qual: []byte(qual)}
}

func shortAgg(n int) *kiraagg.Agg {
	a := kiraagg.New(kiraagg.ModeShort, 33)
	for i := 0; i < n; i++ {
		a.Update(rec("ACGTACGTACGT", "IIIIIIIIIIII"))
	}
	return a
}

func TestFinalizeBasicStats(t *testing.T) {
	a := shortAgg(10)
	m := Finalize(a, "reads.fastq", "reads")
	assert.Equal(t, uint64(10), m.Basic.TotalSequences)
	assert.Equal(t, 12, m.Basic.MinLen)
	assert.Equal(t, 12, m.Basic.MaxLen)
	assert.Equal(t, "Sanger / Illumina 1.9", m.Basic.Encoding)
	assert.Equal(t, StatusPass, m.Statuses.Basic)
}

func TestFinalizePerBaseQualityFailsOnLowMedian(t *testing.T) {
	a := kiraagg.New(kiraagg.ModeShort, 33)
	a.Update(rec("ACGT", "!!!!"))
	m := Finalize(a, "f.fastq", "f")
	require.NotEmpty(t, m.PerBaseQual)
	assert.Equal(t, StatusFail, m.Statuses.PerBaseQual)
}

func TestFinalizePerBaseContentPassesOnBalancedBases(t *testing.T) {
	a := kiraagg.New(kiraagg.ModeShort, 33)
	for i := 0; i < 20; i++ {
		a.Update(rec("ACGT", "IIII"))
	}
	m := Finalize(a, "f.fastq", "f")
	assert.Equal(t, StatusPass, m.Statuses.PerBaseContent)
	for _, row := range m.PerBaseContent {
		assert.InDelta(t, 25.0, row.G, 0.01)
		assert.InDelta(t, 25.0, row.A, 0.01)
		assert.InDelta(t, 25.0, row.T, 0.01)
		assert.InDelta(t, 25.0, row.C, 0.01)
	}
}

func TestFinalizeDuplicationFlagsHighDuplicates(t *testing.T) {
	a := kiraagg.New(kiraagg.ModeShort, 33)
	for i := 0; i < 100; i++ {
		a.Update(rec("ACGTACGTACGT", "IIIIIIIIIIII"))
	}
	m := Finalize(a, "f.fastq", "f")
	require.NotEmpty(t, m.Duplication)
	assert.Equal(t, StatusFail, m.Statuses.Duplication)
}

func TestFinalizeLongModeLengthSummary(t *testing.T) {
	a := kiraagg.New(kiraagg.ModeLong, 33)
	seq := make([]byte, 600)
	qual := make([]byte, 600)
	for i := range seq {
		seq[i] = 'A'
		qual[i] = 'I'
	}
	a.Update(rec(string(seq), string(qual)))
	m := Finalize(a, "f.fastq", "f")
	require.NotNil(t, m.LongLength)
	assert.Equal(t, uint64(1), m.LongLength.Bins[2])
}

func TestQuantileFromHistEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, quantileFromHist(nil, 0.5))
}

func TestQuantileFromHistMedian(t *testing.T) {
	hist := make([]uint64, 10)
	hist[5] = 4
	assert.Equal(t, 5, quantileFromHist(hist, 0.5))
}

func TestApproxNxxReturnsRepresentativeMidpoint(t *testing.T) {
	var bins [8]uint64
	bins[3] = 1
	n50 := approxNxx(bins, 5500, 0.5)
	assert.Equal(t, uint64(5500), n50)
}

func TestTextRendererWritesDataAndSummary(t *testing.T) {
	a := shortAgg(5)
	m := Finalize(a, "reads.fastq", "reads")
	dir := t.TempDir()
	require.NoError(t, TextRenderer{}.Render(dir, m))

	data, err := os.ReadFile(filepath.Join(dir, "fastqc_data.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ">>Basic Statistics\tpass")
	assert.Contains(t, string(data), ">>END_MODULE")

	summary, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Basic Statistics")
}

func TestHTMLRendererWritesShellPage(t *testing.T) {
	a := shortAgg(3)
	m := Finalize(a, "reads.fastq", "reads")
	dir := t.TempDir()
	require.NoError(t, HTMLRenderer{}.Render(dir, m))
	data, err := os.ReadFile(filepath.Join(dir, "fastqc_report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html>")
}

func TestZipRendererProducesArchiveNextToDir(t *testing.T) {
	a := shortAgg(3)
	m := Finalize(a, "reads.fastq", "reads")
	parent := t.TempDir()
	dir := filepath.Join(parent, "reads_fastqc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, TextRenderer{}.Render(dir, m))
	require.NoError(t, HTMLRenderer{}.Render(dir, m))

	require.NoError(t, ZipRenderer{SampleName: "reads"}.Render(dir, m))
	_, err := os.Stat(filepath.Join(parent, "reads_fastqc.zip"))
	assert.NoError(t, err)
}
