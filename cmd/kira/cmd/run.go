package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grailbio/base/cmdutil"
	"v.io/x/lib/cmdline"

	"github.com/kira-bio/kira-qc/internal/kiraagg"
	"github.com/kira-bio/kira-qc/internal/kiraconfig"
	"github.com/kira-bio/kira-qc/internal/pipeline"
	"github.com/kira-bio/kira-qc/internal/report"
)

type runFlags struct {
	out         *string
	threads     *int
	sampleName  *string
	phredOffset *string
	mode        *string
	noZip       *bool
	exportLatex *string
}

func newCmdRun() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "run",
		Short:    "Run a streaming quality-control pass over one FASTQ file",
		ArgsName: "path",
	}
	flags := runFlags{
		out:         cmd.Flags.String("out", "", "Output directory root; writes into <out>/<sample>_fastqc/"),
		threads:     cmd.Flags.Int("threads", 0, "Worker pool size (default: number of online CPUs)"),
		sampleName:  cmd.Flags.String("sample-name", "", "Sample name (default: input file stem)"),
		phredOffset: cmd.Flags.String("phred-offset", "auto", "auto|33|64"),
		mode:        cmd.Flags.String("mode", "short", "short|long"),
		noZip:       cmd.Flags.Bool("no-zip", false, "Skip zip packaging of the output directory"),
		exportLatex: cmd.Flags.String("export-latex", "", "summary|supplement"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("run takes one input path argument, but got %v", argv)
		}
		return runMain(flags, argv[0])
	})
	return cmd
}

func runMain(flags runFlags, inputPath string) error {
	phredPolicy, err := kiraconfig.ParsePhredOffset(*flags.phredOffset)
	if err != nil {
		return err
	}
	mode, err := kiraconfig.ParseMode(*flags.mode)
	if err != nil {
		return err
	}
	exportLatex, err := kiraconfig.ParseExportLatex(*flags.exportLatex)
	if err != nil {
		return err
	}

	cfg := kiraconfig.RunConfig{
		InputPath:   inputPath,
		OutDir:      *flags.out,
		SampleName:  *flags.sampleName,
		Threads:     *flags.threads,
		PhredOffset: phredPolicy,
		Mode:        mode,
		NoZip:       *flags.noZip,
		ExportLatex: exportLatex,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	stats := newStatsLogger()

	offset := 33
	if cfg.PhredOffset == kiraconfig.PhredFixed64 {
		offset = 64
	} else if cfg.PhredOffset == kiraconfig.PhredAuto {
		t0 := time.Now()
		offset, err = pipeline.DetectPhredOffset(cfg.InputPath, cfg.ChunkSize)
		if err != nil {
			return err
		}
		stats.done("phred-detect", t0)
	}

	aggMode := kiraagg.ModeShort
	if cfg.Mode == kiraconfig.ModeLong {
		aggMode = kiraagg.ModeLong
	}

	t0 := time.Now()
	agg, err := pipeline.Run(cfg.InputPath, cfg.ChunkSize, cfg.Threads, aggMode, offset)
	if err != nil {
		return err
	}
	stats.done("aggregate", t0)

	if stats.enabled {
		t0 = time.Now()
		sum, err := pipeline.ChunkFingerprintSum(cfg.InputPath, cfg.ChunkSize)
		if err != nil {
			return err
		}
		stats.done("chunk-fingerprint", t0)
		stats.line("chunk-fingerprint-sum %x", sum)
	}

	t0 = time.Now()
	metrics := report.Finalize(agg, filepath.Base(cfg.InputPath), cfg.SampleName)
	stats.done("finalize", t0)

	sampleDir := cfg.SampleDir()
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return err
	}

	t0 = time.Now()
	renderers := []report.Renderer{report.TextRenderer{}, report.HTMLRenderer{}}
	for _, r := range renderers {
		if err := r.Render(sampleDir, metrics); err != nil {
			return err
		}
	}
	stats.done("render-text-html", t0)

	if exportLatex != kiraconfig.ExportLatexNone {
		t0 = time.Now()
		if err := (report.LatexRenderer{}).Render(sampleDir, metrics); err != nil {
			return err
		}
		stats.done("render-latex", t0)
	}

	if !cfg.NoZip {
		t0 = time.Now()
		if err := (report.ZipRenderer{SampleName: cfg.SampleName}).Render(sampleDir, metrics); err != nil {
			return err
		}
		stats.done("zip", t0)
	}

	t0 = time.Now()
	sum, err := checksumSampleDir(sampleDir)
	if err != nil {
		return err
	}
	stats.done("checksum", t0)
	fmt.Printf("%s  %s\n", sum, sampleDir)

	return nil
}
