package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kira-bio/kira-qc/internal/kiraagg"
)

func writeFastq(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("@read")
		sb.WriteString(strings.Repeat("x", 1))
		sb.WriteString("\nACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIII\n")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "in.fastq")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestRunMergesAllChunks(t *testing.T) {
	path := writeFastq(t, 500)
	agg, err := Run(path, 1024, 4, kiraagg.ModeShort, 33)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), agg.TotalReads)
	assert.Equal(t, uint64(500*16), agg.TotalBases)
}

func TestRunSingleThreadMatchesMultiThread(t *testing.T) {
	path := writeFastq(t, 300)
	one, err := Run(path, 256, 1, kiraagg.ModeShort, 33)
	require.NoError(t, err)
	many, err := Run(path, 256, 6, kiraagg.ModeShort, 33)
	require.NoError(t, err)
	assert.Equal(t, one.TotalReads, many.TotalReads)
	assert.Equal(t, one.TotalBases, many.TotalBases)
	assert.Equal(t, one.GCBases, many.GCBases)
}

func TestRunTruncatedInputReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.fastq")
	require.NoError(t, os.WriteFile(path, []byte("@r\nACGT\n+\nII"), 0o644))
	_, err := Run(path, 1024, 2, kiraagg.ModeShort, 33)
	assert.Error(t, err)
}

// TestRunWorkerErrorDoesNotDeadlockOnManyChunks is a regression test for a
// worker-detected format error on an input with more chunks than the
// bounded queue can hold at once: without a cancellation path, surviving
// workers block forever sending to an unread results channel, the producer
// then blocks forever on a full chunks channel, and Run never returns.
func TestRunWorkerErrorDoesNotDeadlockOnManyChunks(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("@read\nACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIII\n")
	}
	sb.WriteString("@bad\nACGTACGTACGTACGT\nX\nIIIIIIIIIIIIIIII\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("@read\nACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIII\n")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "bad-mid.fastq")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	done := make(chan struct{})
	var runErr error
	go func() {
		_, runErr = Run(path, 64, 2, kiraagg.ModeShort, 33)
		close(done)
	}()
	select {
	case <-done:
		assert.Error(t, runErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked on a worker-detected error with more chunks than the bounded queue capacity")
	}
}

func TestDetectPhredOffsetSanger(t *testing.T) {
	// A minimum quality byte of '!' (33) only occurs in phred33 data.
	dir := t.TempDir()
	path := filepath.Join(dir, "sanger.fastq")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("@r\nACGT\n+\n!III\n", 10)), 0o644))
	offset, err := DetectPhredOffset(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, 33, offset)
}

func TestChunkFingerprintSumIsStableAcrossRuns(t *testing.T) {
	path := writeFastq(t, 200)
	sum1, err := ChunkFingerprintSum(path, 1024)
	require.NoError(t, err)
	sum2, err := ChunkFingerprintSum(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)
}
