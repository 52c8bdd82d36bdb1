package kiraagg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-bio/kira-qc/internal/fastqrec"
)

func rec(seq, qual string) fastqrec.View {
	return fastqrec.View{ID: []byte("@r"), Seq: []byte(seq), Qual: []byte(qual)}
}

func TestUpdateBasicCounters(t *testing.T) {
	a := New(ModeShort, 33)
	a.Update(rec("ACGTACGT", "IIIIIIII"))
	assert.Equal(t, uint64(1), a.TotalReads)
	assert.Equal(t, uint64(8), a.TotalBases)
	assert.Equal(t, 8, a.MinLen)
	assert.Equal(t, 8, a.MaxLen)
	assert.Equal(t, uint64(4), a.GCBases)
}

func TestUpdateMinMaxAcrossReads(t *testing.T) {
	a := New(ModeShort, 33)
	a.Update(rec("ACGT", "IIII"))
	a.Update(rec("ACGTACGTACGT", "IIIIIIIIIIII"))
	assert.Equal(t, 4, a.MinLen)
	assert.Equal(t, 12, a.MaxLen)
}

func TestUpdateMeanQHistAndLowQCounter(t *testing.T) {
	a := New(ModeShort, 33)
	// '!' is Phred 0 at offset 33, so mean Q is 0: counted in the <20 bucket.
	a.Update(rec("ACGT", "!!!!"))
	assert.Equal(t, uint64(1), a.PerSeqMeanQHist[0])
	assert.Equal(t, uint64(1), a.ReadsMeanQLt20)
}

func TestUpdateShortModePerPositionGrowth(t *testing.T) {
	a := New(ModeShort, 33)
	a.Update(rec("ACGT", "IIII"))
	require.Len(t, a.PerPosBase, 4)
	a.Update(rec("ACGTACGT", "IIIIIIII"))
	require.Len(t, a.PerPosBase, 8)
	assert.Equal(t, uint64(2), a.PerPosBase[0][0]) // both reads start with 'A'
}

func TestUpdateLengthHistAndDuplication(t *testing.T) {
	a := New(ModeShort, 33)
	a.Update(rec("ACGTACGT", "IIIIIIII"))
	a.Update(rec("ACGTACGT", "IIIIIIII"))
	assert.Equal(t, uint64(2), a.LengthHist[8])
	assert.Equal(t, uint64(2), a.DupSS.Entries()[0].Count)
}

func TestUpdateAdapterDetection(t *testing.T) {
	a := New(ModeShort, 33)
	adapterSeq := "AGATCGGAAGAGCACACGTCTGAACTCCAGTCAC"
	seq := "ACGTACGTACGT" + adapterSeq
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I'
	}
	a.Update(rec(seq, string(qual)))
	var total uint64
	for _, perPattern := range a.PerPosAdapter {
		total += perPattern[0]
	}
	assert.Equal(t, uint64(1), total)
}

func TestUpdateKmerEngineRunsOnLongEnoughRead(t *testing.T) {
	a := New(ModeShort, 33)
	seq := "ACGTACGTACGTACGT"
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I'
	}
	a.Update(rec(seq, string(qual)))
	assert.Greater(t, a.Kmer.Total, uint64(0))
}

func TestUpdateLongModeLenBinsAndNContent(t *testing.T) {
	a := New(ModeLong, 33)
	seq := make([]byte, 150)
	for i := range seq {
		seq[i] = 'A'
	}
	qual := make([]byte, 150)
	for i := range qual {
		qual[i] = 'I'
	}
	a.Update(fastqrec.View{ID: []byte("@r"), Seq: seq, Qual: qual})
	assert.Equal(t, uint64(1), a.LongLenBins[longLenBinOf(150)])
}

func TestUpdateLongModeNPercentGt20UsesRoundedPercentNotRawCount(t *testing.T) {
	a := New(ModeLong, 33)
	seq := []byte("NNNNNN")
	qual := []byte("IIIIII")
	a.Update(fastqrec.View{ID: []byte("@r"), Seq: seq, Qual: qual})
	assert.Equal(t, uint64(1), a.ReadsNGt20)
	assert.Equal(t, uint64(0), a.ReadsNGt10)
}

func TestUpdateLongModeNPercentGt10ExcludesGt20Reads(t *testing.T) {
	a := New(ModeLong, 33)
	seq := make([]byte, 1000)
	qual := make([]byte, 1000)
	for i := range seq {
		if i < 150 {
			seq[i] = 'N'
		} else {
			seq[i] = 'A'
		}
		qual[i] = 'I'
	}
	a.Update(fastqrec.View{ID: []byte("@r"), Seq: seq, Qual: qual})
	assert.Equal(t, uint64(0), a.ReadsNGt20)
	assert.Equal(t, uint64(1), a.ReadsNGt10)
}

func TestUpdateSkipsZeroLengthRead(t *testing.T) {
	a := New(ModeShort, 33)
	a.Update(rec("ACGTACGT", "IIIIIIII"))
	a.Update(rec("", ""))
	assert.Equal(t, uint64(1), a.TotalReads)
	assert.Equal(t, 8, a.MinLen)
	assert.Equal(t, uint64(0), a.LengthHist[0])
}

func TestMergeSumsAcrossPartials(t *testing.T) {
	a := New(ModeShort, 33)
	b := New(ModeShort, 33)
	a.Update(rec("ACGTACGT", "IIIIIIII"))
	b.Update(rec("ACGTACGT", "IIIIIIII"))
	b.Update(rec("TTTTTTTT", "IIIIIIII"))
	a.Merge(b)
	assert.Equal(t, uint64(3), a.TotalReads)
	assert.Equal(t, uint64(2), a.LengthHist[8])
}

func TestClassifyOverrep(t *testing.T) {
	assert.Equal(t, "Poly-A", ClassifyOverrep([]byte("AAAAAAAAAAAAAAAAAAAAAAAA")))
	assert.Equal(t, "Poly-T", ClassifyOverrep([]byte("tttttttttttttttttttttttt")))
	assert.Equal(t, "Adapter", ClassifyOverrep([]byte("AGATCGGAAGAGCACACGTCTGAACTCCAGTCAC")))
	assert.Equal(t, "No Hit", ClassifyOverrep([]byte("ACGTACGTACGTACGTACGTACGT")))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 50, roundHalfUp(1, 2))
	assert.Equal(t, 33, roundHalfUp(1, 3))
	assert.Equal(t, 0, roundHalfUp(0, 10))
}
