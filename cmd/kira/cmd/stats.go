package cmd

import (
	"os"
	"time"

	"github.com/grailbio/base/log"
)

// statsLogger prints `KIRA_STATS <stage> <duration>` lines via log.Printf
// when the KIRA_STATS environment variable is set to "1", matching
// markduplicates's t0/t1 time.Now()/Sub() stage-timing idiom and
// original_source's log_stage helper, gated behind an env var instead of
// always-on debug logging.
type statsLogger struct {
	enabled bool
}

func newStatsLogger() *statsLogger {
	return &statsLogger{enabled: os.Getenv("KIRA_STATS") == "1"}
}

func (s *statsLogger) done(stage string, since time.Time) {
	if !s.enabled {
		return
	}
	log.Printf("KIRA_STATS %s %v", stage, time.Since(since))
}

func (s *statsLogger) line(format string, args ...interface{}) {
	if !s.enabled {
		return
	}
	log.Printf("KIRA_STATS "+format, args...)
}
