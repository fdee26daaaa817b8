package main

import (
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// newLogger creates the process logger. Output is JSON when stderr is not a
// terminal so piped runs stay machine readable.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner",
	})
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetFormatter(log.JSONFormatter)
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
