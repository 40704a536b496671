package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger for the service. Development gets a
// human-readable console writer at debug level.
func NewLogger(appEnv string) zerolog.Logger {
	return newLogger(os.Stdout, appEnv)
}

// NewCLILogger writes to out, normally stderr, so command output on stdout
// can be piped.
func NewCLILogger(out io.Writer, appEnv string) zerolog.Logger {
	return newLogger(out, appEnv)
}

func newLogger(out io.Writer, appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "fundwatch").
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}

// DiscardLogger returns a logger that drops every event. Components fall back
// to it when no logger is injected.
func DiscardLogger() Logger {
	return zerolog.New(io.Discard)
}

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module
// directly.
type Logger = zerolog.Logger
