package logging

import (
	"os"

	"github.com/phuslu/log"
)

// New returns a logger on stderr: colored console lines on a terminal, JSON
// lines otherwise.
func New(level string) *log.Logger {
	var w log.Writer = &log.IOWriter{Writer: os.Stderr}
	if log.IsTerminal(os.Stderr.Fd()) {
		w = &log.ConsoleWriter{ColorOutput: true, EndWithMessage: true}
	}
	return &log.Logger{
		Level:  log.ParseLevel(level),
		Writer: w,
	}
}
