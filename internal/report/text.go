package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kira-bio/kira-qc/internal/kiraagg"
)

// TextRenderer writes fastqc_data.txt and summary.txt, the module-block
// tab-separated text format spec.md §6 names as the canonical artifact.
type TextRenderer struct{}

func (TextRenderer) Render(dir string, m *Metrics) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeDataTxt(filepath.Join(dir, "fastqc_data.txt"), m); err != nil {
		return err
	}
	return writeSummaryTxt(filepath.Join(dir, "summary.txt"), m)
}

func writeDataTxt(path string, m *Metrics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeBasic(w, m)
	if m.Mode == kiraagg.ModeShort {
		writePerBaseQual(w, m)
		writePerSeqQual(w, m)
		writePerBaseContent(w, m)
		writePerSeqGC(w, m)
		writePerBaseN(w, m)
		writeLengthDistShort(w, m)
		writeDuplication(w, m)
		writeOverrep(w, m)
		writeAdapterContentShort(w, m)
		writeKmerContent(w, m)
	} else {
		writeLengthDistLong(w, m)
		writePerSeqQual(w, m)
		writePerSeqGC(w, m)
		writePerSeqN(w, m)
		writeAdapterContentLong(w, m)
	}

	return w.Flush()
}

func writeBasic(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Basic Statistics\t%s\n", m.Statuses.Basic)
	fmt.Fprint(w, "#Measure\tValue\n")
	fmt.Fprintf(w, "Filename\t%s\n", m.FileName)
	fmt.Fprintf(w, "File type\t%s\n", m.Basic.FileType)
	fmt.Fprintf(w, "Encoding\t%s\n", m.Basic.Encoding)
	fmt.Fprintf(w, "Total Sequences\t%d\n", m.Basic.TotalSequences)
	fmt.Fprintf(w, "Filtered Sequences\t%d\n", m.Basic.FilteredSequences)
	if m.Basic.MinLen == m.Basic.MaxLen {
		fmt.Fprintf(w, "Sequence length\t%d\n", m.Basic.MinLen)
	} else {
		fmt.Fprintf(w, "Sequence length\t%d-%d\n", m.Basic.MinLen, m.Basic.MaxLen)
	}
	fmt.Fprintf(w, "%%GC\t%d\n", m.Basic.GCPercent)
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writePerBaseQual(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Per base sequence quality\t%s\n", m.Statuses.PerBaseQual)
	fmt.Fprint(w, "#Base\tMean\tMedian\tLower Quartile\tUpper Quartile\t10th Percentile\t90th Percentile\n")
	for _, row := range m.PerBaseQual {
		fmt.Fprintf(w, "%d\t%.1f\t%d\t%d\t%d\t%d\t%d\n",
			row.Base, row.Mean, row.Median, row.LowerQuartile, row.UpperQuartile, row.P10, row.P90)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writePerSeqQual(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Per sequence quality scores\t%s\n", m.Statuses.PerSeqQual)
	fmt.Fprint(w, "#Quality\tCount\n")
	for _, row := range m.PerSeqQual {
		fmt.Fprintf(w, "%d\t%d\n", row.MeanQ, row.Count)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writePerBaseContent(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Per base sequence content\t%s\n", m.Statuses.PerBaseContent)
	fmt.Fprint(w, "#Base\tG\tA\tT\tC\n")
	for _, row := range m.PerBaseContent {
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.1f\t%.1f\n", row.Base, row.G, row.A, row.T, row.C)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writePerSeqGC(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Per sequence GC content\t%s\n", m.Statuses.PerSeqGC)
	fmt.Fprint(w, "#GC Content\tCount\n")
	for _, row := range m.PerSeqGC {
		fmt.Fprintf(w, "%d\t%d\n", row.GC, row.Count)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writePerBaseN(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Per base N content\t%s\n", m.Statuses.PerBaseN)
	fmt.Fprint(w, "#Base\tN-Count\n")
	for _, row := range m.PerBaseN {
		fmt.Fprintf(w, "%d\t%.1f\n", row.Base, row.NPercent)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writePerSeqN(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Per sequence N content\t%s\n", m.Statuses.PerSeqN)
	fmt.Fprint(w, "#N%\tCount\n")
	for _, row := range m.PerSeqN {
		fmt.Fprintf(w, "%d\t%d\n", row.NPercent, row.Count)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeLengthDistShort(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Sequence Length Distribution\t%s\n", m.Statuses.LengthDist)
	fmt.Fprint(w, "#Length\tCount\n")
	for _, row := range m.LengthDist {
		fmt.Fprintf(w, "%d\t%d\n", row.Length, row.Count)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeLengthDistLong(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Sequence Length Distribution\t%s\n", m.Statuses.LengthDist)
	if ll := m.LongLength; ll != nil {
		fmt.Fprint(w, "#Metric\tValue\n")
		fmt.Fprintf(w, "Min\t%d\n", ll.Min)
		fmt.Fprintf(w, "Max\t%d\n", ll.Max)
		fmt.Fprintf(w, "Mean\t%.1f\n", ll.Mean)
		fmt.Fprintf(w, "N50\t%d\n", ll.N50)
		fmt.Fprintf(w, "N90\t%d\n", ll.N90)
		fmt.Fprint(w, "#Length\tCount\n")
		for i := range ll.Bins {
			fmt.Fprintf(w, "%s\t%d\n", ll.Labels[i], ll.Bins[i])
		}
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeDuplication(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Sequence Duplication Levels\t%s\n", m.Statuses.Duplication)
	fmt.Fprint(w, "#Duplication Level\tRelative Count\n")
	for _, row := range m.Duplication {
		fmt.Fprintf(w, "%s\t%.2f\n", row.Level, row.Relative)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeOverrep(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Overrepresented sequences\t%s\n", m.Statuses.Overrepresented)
	fmt.Fprint(w, "#Sequence\tCount\tPercentage\tPossible Source\n")
	for _, row := range m.Overrepresented {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\n", row.Sequence, row.Count, row.Percent, row.Source)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeAdapterContentShort(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Adapter Content\t%s\n", m.Statuses.AdapterContent)
	names := AdapterNames()
	fmt.Fprint(w, "#Position")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprint(w, "\n")
	for _, row := range m.AdapterContent {
		fmt.Fprintf(w, "%d", row.Position)
		for _, v := range row.Values {
			fmt.Fprintf(w, "\t%.1f", v)
		}
		fmt.Fprint(w, "\n")
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeAdapterContentLong(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Adapter Content\t%s\n", m.Statuses.AdapterContent)
	names := AdapterNames()
	fmt.Fprint(w, "#Adapter")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprint(w, "\n")
	if len(m.AdapterContent) > 0 {
		row := m.AdapterContent[0]
		fmt.Fprint(w, "Any")
		for _, v := range row.Values {
			fmt.Fprintf(w, "\t%.1f", v)
		}
		fmt.Fprint(w, "\n")
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

func writeKmerContent(w *bufio.Writer, m *Metrics) {
	fmt.Fprintf(w, ">>Kmer Content\t%s\n", m.Statuses.KmerContent)
	fmt.Fprint(w, "#Sequence\tCount\tPValue\tObs/Exp Max\tMax Obs/Exp Position\n")
	for _, row := range m.KmerRows {
		fmt.Fprintf(w, "%s\t%d\t%.2e\t%.2f\t%d\n", row.Sequence, row.Count, row.PValue, row.ObsExp, row.MaxPos)
	}
	fmt.Fprint(w, ">>END_MODULE\n")
}

// moduleStatusLine is one summary.txt row's module name and status;
// writeSummaryTxt adds the source file name when it writes the row.
type moduleStatusLine struct {
	Name   string
	Status Status
}

func writeSummaryTxt(path string, m *Metrics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	var lines []moduleStatusLine
	lines = append(lines, moduleStatusLine{"Basic Statistics", m.Statuses.Basic})
	if m.Mode == kiraagg.ModeShort {
		lines = append(lines,
			moduleStatusLine{"Per base sequence quality", m.Statuses.PerBaseQual},
			moduleStatusLine{"Per sequence quality scores", m.Statuses.PerSeqQual},
			moduleStatusLine{"Per base sequence content", m.Statuses.PerBaseContent},
			moduleStatusLine{"Per sequence GC content", m.Statuses.PerSeqGC},
			moduleStatusLine{"Per base N content", m.Statuses.PerBaseN},
			moduleStatusLine{"Sequence Length Distribution", m.Statuses.LengthDist},
			moduleStatusLine{"Sequence Duplication Levels", m.Statuses.Duplication},
			moduleStatusLine{"Overrepresented sequences", m.Statuses.Overrepresented},
			moduleStatusLine{"Adapter Content", m.Statuses.AdapterContent},
			moduleStatusLine{"Kmer Content", m.Statuses.KmerContent},
		)
	} else {
		lines = append(lines,
			moduleStatusLine{"Sequence Length Distribution", m.Statuses.LengthDist},
			moduleStatusLine{"Per sequence quality scores", m.Statuses.PerSeqQual},
			moduleStatusLine{"Per sequence GC content", m.Statuses.PerSeqGC},
			moduleStatusLine{"Per sequence N content", m.Statuses.PerSeqN},
			moduleStatusLine{"Adapter Content", m.Statuses.AdapterContent},
		)
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Status, l.Name, m.FileName)
	}
	return w.Flush()
}
