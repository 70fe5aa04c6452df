// Package logger owns the process-wide zerolog instance. Components log
// through the package-level event constructors so every line shares one
// sink, level and timestamp format.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the shared logger. Level takes a zerolog level name
// (debug, info, warn, error); anything else falls back to info. Pretty
// switches the JSON stream to the human console format for local runs.
type Config struct {
	Level  string
	Pretty bool
	Output io.Writer
}

var root zerolog.Logger

// Configure rebuilds the shared logger. Bootstrap calls this once with
// the logging config section; the zero Config means JSON at info level
// on stdout.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = out
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	root = zerolog.New(w).With().Timestamp().Logger()
	log.Logger = root
}

// Debug starts a debug-level event on the shared logger
func Debug() *zerolog.Event {
	return root.Debug()
}

// Info starts an info-level event on the shared logger
func Info() *zerolog.Event {
	return root.Info()
}

// Warn starts a warn-level event on the shared logger
func Warn() *zerolog.Event {
	return root.Warn()
}

// Error starts an error-level event on the shared logger
func Error() *zerolog.Event {
	return root.Error()
}

func init() {
	Configure(Config{})
}
