// Package kiraconfig holds the configuration required to run one QC pass
// over a FASTQ file.
package kiraconfig

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// PhredOffsetPolicy selects how the quality encoding offset is determined.
type PhredOffsetPolicy int

const (
	// PhredAuto sniffs the offset from the first AutoDetectReads records.
	PhredAuto PhredOffsetPolicy = iota
	// PhredFixed33 forces the Sanger/Illumina-1.8+ offset.
	PhredFixed33
	// PhredFixed64 forces the legacy Illumina-1.3-1.7 offset.
	PhredFixed64
)

// Mode selects which module set the engine computes.
type Mode int

const (
	// ModeShort runs the short-read module set (per-position tables,
	// duplication, overrepresented sequences, k-mer content, adapter
	// content by position).
	ModeShort Mode = iota
	// ModeLong runs the long-read module set (length-bucketed summary,
	// per-sequence N content, adapter-presence-by-read).
	ModeLong
)

func (m Mode) String() string {
	if m == ModeLong {
		return "long"
	}
	return "short"
}

// AutoDetectReads is the number of records read from the head of the input
// when sniffing the Phred offset (spec.md §4.3).
const AutoDetectReads = 50_000

// DefaultChunkSize is the target chunk size recommended by spec.md §4.2.
const DefaultChunkSize = 16 << 20

// ExportLatex selects which LaTeX bundle variant is produced, if any.
type ExportLatex int

const (
	// ExportLatexNone skips LaTeX export.
	ExportLatexNone ExportLatex = iota
	// ExportLatexSummary exports a single-page summary.
	ExportLatexSummary
	// ExportLatexSupplement exports the full per-module supplement.
	ExportLatexSupplement
)

// RunConfig collects the inputs for one engine run. It is built once by the
// CLI (or by a test) and is treated as immutable for the lifetime of a run.
type RunConfig struct {
	// InputPath is the FASTQ file to analyze; may be gzip-compressed.
	InputPath string
	// OutDir is the root output directory; the engine writes into
	// <OutDir>/<SampleName>_fastqc/.
	OutDir string
	// SampleName defaults to the input file's stem.
	SampleName string
	// Threads is the worker pool size; must be >= 1.
	Threads int
	// PhredOffset selects the quality-encoding policy.
	PhredOffset PhredOffsetPolicy
	// Mode selects the short/long module set.
	Mode Mode
	// NoZip skips zip packaging of the output directory.
	NoZip bool
	// ExportLatex optionally requests a LaTeX bundle.
	ExportLatex ExportLatex
	// ChunkSize is the target chunk size in bytes; defaults to
	// DefaultChunkSize when zero.
	ChunkSize int
}

// DefaultSampleName derives the sample name from the input path the same
// way the default flag value is computed: the file name stem with FASTQ/
// gzip suffixes stripped.
func DefaultSampleName(inputPath string) string {
	base := filepath.Base(inputPath)
	for _, suffix := range []string{".gz", ".fastq", ".fq", ".txt"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return base
}

// Validate fills in defaults and checks that the configuration is usable.
// It mirrors the fail-fast style of fusion.Opts validation: configuration
// errors are reported eagerly rather than discovered mid-run.
func (c *RunConfig) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("kiraconfig: input path is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("kiraconfig: --out is required")
	}
	if c.Threads == 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.Threads < 1 {
		return fmt.Errorf("kiraconfig: threads must be >= 1, got %d", c.Threads)
	}
	if c.SampleName == "" {
		c.SampleName = DefaultSampleName(c.InputPath)
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	return nil
}

// SampleDir returns the per-sample output directory, <OutDir>/<sample>_fastqc.
func (c *RunConfig) SampleDir() string {
	return filepath.Join(c.OutDir, c.SampleName+"_fastqc")
}

// ParsePhredOffset parses the --phred-offset flag value.
func ParsePhredOffset(s string) (PhredOffsetPolicy, error) {
	switch s {
	case "", "auto":
		return PhredAuto, nil
	case "33":
		return PhredFixed33, nil
	case "64":
		return PhredFixed64, nil
	default:
		return PhredAuto, fmt.Errorf("kiraconfig: unknown --phred-offset value %q", s)
	}
}

// ParseMode parses the --mode flag value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "short":
		return ModeShort, nil
	case "long":
		return ModeLong, nil
	default:
		return ModeShort, fmt.Errorf("kiraconfig: unknown --mode value %q", s)
	}
}

// ParseExportLatex parses the --export-latex flag value.
func ParseExportLatex(s string) (ExportLatex, error) {
	switch s {
	case "":
		return ExportLatexNone, nil
	case "summary":
		return ExportLatexSummary, nil
	case "supplement":
		return ExportLatexSupplement, nil
	default:
		return ExportLatexNone, fmt.Errorf("kiraconfig: unknown --export-latex value %q", s)
	}
}
