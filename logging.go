package docmap

import (
	"io"
	"log"
)

type Classification string

const (
	Warn  Classification = "WARN"
	Debug Classification = "DEBUG"
)

// Logger is an interface for logging entries at certain classifications.
type Logger interface {
	// Logf is expected to support the standard fmt package "verbs".
	Logf(level Classification, format string, v ...any)
}

// Noop is a Logger implementation that simply does not perform any logging.
type Noop struct{}

func (n Noop) Logf(Classification, string, ...any) {}

// StandardLogger is a Logger implementation that wraps the standard library logger, and delegates logging to its
// Printf method.
type StandardLogger struct {
	Logger *log.Logger
}

// Logf logs the given classification and message to the underlying logger.
func (s StandardLogger) Logf(classification Classification, format string, v ...any) {
	if len(classification) != 0 {
		format = string(classification) + " " + format
	}

	s.Logger.Printf(format, v...)
}

// NewStandardLogger returns a new StandardLogger
func NewStandardLogger(writer io.Writer) *StandardLogger {
	return &StandardLogger{
		Logger: log.New(writer, "docmap ", log.LstdFlags),
	}
}
