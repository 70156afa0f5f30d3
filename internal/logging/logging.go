// Package logging holds the process-wide structured logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is shared by the CLI, the web server and any controller that is
// not handed its own logger. Setup replaces it.
var Logger = New(os.Stderr, false)

// New builds a logger writing to w. debug lowers the level so per-step
// records are emitted.
func New(w io.Writer, debug bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "cardsort",
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Setup installs a fresh package logger.
func Setup(w io.Writer, debug bool) *log.Logger {
	Logger = New(w, debug)
	return Logger
}

// Discard returns a logger that drops everything, used by batch trials.
func Discard() *log.Logger {
	return New(io.Discard, false)
}
