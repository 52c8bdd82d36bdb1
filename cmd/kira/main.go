// kira runs a streaming FASTQ quality-control pass and writes a FastQC-
// style report (fastqc_data.txt, summary.txt, a minimal HTML shell, and
// an optional zip bundle) for the given input file.
//
// Usage: kira run --out <dir> [flags] <input.fastq[.gz]>
package main

import "github.com/kira-bio/kira-qc/cmd/kira/cmd"

func main() {
	cmd.Run()
}
