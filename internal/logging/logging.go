package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Dev mode writes human-readable console output.
func New(devMode bool, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, devMode, level)
}

func NewWithWriter(out io.Writer, devMode bool, level string) zerolog.Logger {
	if devMode {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(parsed).
		With().
		Timestamp().
		Logger()
}
