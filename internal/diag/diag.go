// Package diag is a small leveled logger for the --verbose CLI flag.
// The message formatting and TTY detection glue is plain fmt/os/time
// (no third-party structured-logging library appears anywhere in the
// pack, so there is nothing to reach for there); colour detection and
// size formatting delegate to go-isatty and go-humanize.
package diag

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Logger writes leveled diagnostics; verbosity >= 2 is required for
// pass-timing and non-instruction-count logging per the pipeline's
// failure-mode contract.
type Logger struct {
	Verbosity int
	Out       io.Writer
	colour    bool
}

func New(verbosity int) *Logger {
	colour := isatty.IsTerminal(os.Stderr.Fd())
	return &Logger{Verbosity: verbosity, Out: os.Stderr, colour: colour}
}

func (l *Logger) V(level int, format string, args ...interface{}) {
	if l.Verbosity < level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.colour {
		fmt.Fprintf(l.Out, "\x1b[2m[vecl]\x1b[0m %s\n", msg)
		return
	}
	fmt.Fprintf(l.Out, "[vecl] %s\n", msg)
}

// PassTiming logs a pass's name, duration and resulting instruction
// count at verbosity >= 2, per the pipeline's failure-mode contract.
func (l *Logger) PassTiming(pass string, dur time.Duration, instrCount int) {
	l.V(2, "pass %s: %s, %d instructions", pass, dur, instrCount)
}

// ArtifactSize logs a human-readable byte count for a serialised
// artifact, e.g. for --profile output.
func (l *Logger) ArtifactSize(name string, bytes int) {
	l.V(1, "artifact %s: %s", name, humanize.Bytes(uint64(bytes)))
}
