// Package cmd implements the kira command-line tool: a single "run"
// subcommand that drives one streaming quality-control pass over a FASTQ
// file (spec.md §6).
package cmd

import (
	"github.com/grailbio/base/log"
	"v.io/x/lib/cmdline"
)

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "kira",
			Short:    "Streaming FASTQ quality-control engine",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdRun(),
			},
		})
}
