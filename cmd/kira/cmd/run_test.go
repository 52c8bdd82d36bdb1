package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFastq(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("@read\nACGTACGTACGTACGTACGTACGTACGTACGTACGT\n+\nIIIIIIIIIIIIIIIIIIIIIIIIIIIIIIIIIIII\n")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.fastq")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func boolPtr(v bool) *bool     { return &v }
func strPtr(v string) *string  { return &v }
func intPtr(v int) *int        { return &v }

func TestRunMainWritesReportAndZip(t *testing.T) {
	inputPath := writeFastq(t, 50)
	outDir := t.TempDir()

	flags := runFlags{
		out:         strPtr(outDir),
		threads:     intPtr(2),
		sampleName:  strPtr("sample"),
		phredOffset: strPtr("33"),
		mode:        strPtr("short"),
		noZip:       boolPtr(false),
		exportLatex: strPtr(""),
	}
	require.NoError(t, runMain(flags, inputPath))

	sampleDir := filepath.Join(outDir, "sample_fastqc")
	_, err := os.Stat(filepath.Join(sampleDir, "fastqc_data.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(sampleDir, "summary.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(sampleDir, "fastqc_report.html"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "sample_fastqc.zip"))
	assert.NoError(t, err)
}

func TestRunMainSkipsZipWithNoZipFlag(t *testing.T) {
	inputPath := writeFastq(t, 10)
	outDir := t.TempDir()

	flags := runFlags{
		out:         strPtr(outDir),
		threads:     intPtr(1),
		sampleName:  strPtr("sample"),
		phredOffset: strPtr("auto"),
		mode:        strPtr("long"),
		noZip:       boolPtr(true),
		exportLatex: strPtr(""),
	}
	require.NoError(t, runMain(flags, inputPath))

	_, err := os.Stat(filepath.Join(outDir, "sample_fastqc.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunMainRejectsUnknownMode(t *testing.T) {
	inputPath := writeFastq(t, 1)
	outDir := t.TempDir()
	flags := runFlags{
		out:         strPtr(outDir),
		threads:     intPtr(1),
		sampleName:  strPtr("sample"),
		phredOffset: strPtr("auto"),
		mode:        strPtr("bogus"),
		noZip:       boolPtr(true),
		exportLatex: strPtr(""),
	}
	assert.Error(t, runMain(flags, inputPath))
}
