// Package shell is the advisory side channel of the rewriting engine:
// non-fatal warnings and progress status for the caller. Nothing here is
// load-bearing for correctness; a nil *Shell silently drops everything.
package shell

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Shell writes colored advisories. It is safe for concurrent use so that
// independent units processed in parallel can share one sink.
type Shell struct {
	mu     sync.Mutex
	out    io.Writer
	warn   *color.Color
	status *color.Color
}

// New creates a shell writing to out, defaulting to stderr.
func New(out io.Writer) *Shell {
	if out == nil {
		out = os.Stderr
	}
	return &Shell{
		out:    out,
		warn:   color.New(color.FgYellow, color.Bold),
		status: color.New(color.FgGreen, color.Bold),
	}
}

// Warnf emits a non-fatal advisory.
func (s *Shell) Warnf(format string, args ...interface{}) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warn.Fprint(s.out, "warning")
	fmt.Fprintf(s.out, ": "+format+"\n", args...)
}

// Statusf emits a progress line with a leading verb, cargo style.
func (s *Shell) Statusf(verb, format string, args ...interface{}) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Fprintf(s.out, "%12s", verb)
	fmt.Fprintf(s.out, " "+format+"\n", args...)
}
