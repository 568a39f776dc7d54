// Package logging builds the zerolog.Logger used throughout xlconsolidate:
// a Config struct, console-vs-JSON writer selection, and a component-scoped
// child logger helper.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// Format is "console" (human-readable, colorized) or "json". Defaults
	// to "console".
	Format string
	// Output, if non-nil, overrides the default destination (os.Stderr).
	Output io.Writer
	// File, if set, additionally writes JSON lines to this path.
	File string
}

// New builds a zerolog.Logger from cfg.
func New(cfg Config) (zerolog.Logger, error) {
	level := parseLevel(cfg.Level)

	var out io.Writer = os.Stderr
	if cfg.Output != nil {
		out = cfg.Output
	}

	writers := []io.Writer{writerFor(cfg.Format, out)}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, f)
	}

	var multi io.Writer
	if len(writers) == 1 {
		multi = writers[0]
	} else {
		multi = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(multi).Level(level).With().Timestamp().Logger()
	return logger, nil
}

func writerFor(format string, out io.Writer) io.Writer {
	if strings.EqualFold(format, "json") {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ComponentLogger returns a child logger with a "component" field set, so
// log lines from different packages can be filtered independently.
func ComponentLogger(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
