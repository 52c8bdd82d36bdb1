package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kira-bio/kira-qc/internal/kiraagg"
)

// HTMLRenderer writes a minimal fastqc_report.html shell: a single table
// with one row per module and its status, no embedded SVG charts. The original's full
// chart-rendering HTML report is out of budget here (spec.md §6's
// html/latex renderers are named only as interface collaborators); this
// stub still satisfies Renderer so --export-latex and HTML output stay
// wired end-to-end.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(dir string, m *Metrics) error {
	f, err := os.Create(filepath.Join(dir, "fastqc_report.html"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "<!DOCTYPE html>\n<html><head><title>kira: %s</title></head><body>\n", m.FileName)
	fmt.Fprintf(f, "<h1>%s</h1>\n<table border=\"1\">\n", m.FileName)
	fmt.Fprint(f, "<tr><th>Module</th><th>Status</th></tr>\n")
	for _, row := range htmlSummaryRows(m) {
		fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td></tr>\n", row.Name, row.Status)
	}
	fmt.Fprint(f, "</table>\n</body></html>\n")
	return nil
}

func htmlSummaryRows(m *Metrics) []moduleStatusLine {
	if m.Mode == kiraagg.ModeShort {
		return []moduleStatusLine{
			{"Basic Statistics", m.Statuses.Basic},
			{"Per base sequence quality", m.Statuses.PerBaseQual},
			{"Per sequence quality scores", m.Statuses.PerSeqQual},
			{"Per base sequence content", m.Statuses.PerBaseContent},
			{"Per sequence GC content", m.Statuses.PerSeqGC},
			{"Per base N content", m.Statuses.PerBaseN},
			{"Sequence Length Distribution", m.Statuses.LengthDist},
			{"Sequence Duplication Levels", m.Statuses.Duplication},
			{"Overrepresented sequences", m.Statuses.Overrepresented},
			{"Adapter Content", m.Statuses.AdapterContent},
			{"Kmer Content", m.Statuses.KmerContent},
		}
	}
	return []moduleStatusLine{
		{"Basic Statistics", m.Statuses.Basic},
		{"Sequence Length Distribution", m.Statuses.LengthDist},
		{"Per sequence quality scores", m.Statuses.PerSeqQual},
		{"Per sequence GC content", m.Statuses.PerSeqGC},
		{"Per sequence N content", m.Statuses.PerSeqN},
		{"Adapter Content", m.Statuses.AdapterContent},
	}
}

// LatexRenderer is the --export-latex stub: a thin wrapper so the CLI
// flag is wired to a real Renderer instead of a no-op, matching the same
// "interface collaborator, not a chart engine" stance as HTMLRenderer.
type LatexRenderer struct{}

func (LatexRenderer) Render(dir string, m *Metrics) error {
	f, err := os.Create(filepath.Join(dir, "fastqc_report.tex"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprint(f, "\\documentclass{article}\n\\begin{document}\n")
	fmt.Fprintf(f, "\\section*{%s}\n\\begin{tabular}{ll}\n", texEscape(m.FileName))
	for _, row := range htmlSummaryRows(m) {
		fmt.Fprintf(f, "%s & %s \\\\\n", texEscape(row.Name), row.Status)
	}
	fmt.Fprint(f, "\\end{tabular}\n\\end{document}\n")
	return nil
}

func texEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' || s[i] == '%' || s[i] == '&' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
