// Package logging builds the structured logger shared by the commands.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a [log.Logger] writing to w with timestamps enabled.
// The writer defaults to [os.Stderr]. Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// SetVerbose lowers the level of l to debug.
func SetVerbose(l *log.Logger) {
	l.SetLevel(log.DebugLevel)
}

// WithRun returns a child logger tagged with a fresh run id.
func WithRun(l *log.Logger) *log.Logger {
	return l.With("run", uuid.New().String())
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
