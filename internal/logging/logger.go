// Package logging builds the zerolog loggers used for diagnostics.
//
// Diagnostics always go to stderr so they never interleave with the
// debugger output printed on stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config contains logger configuration.
type Config struct {
	// Level is one of Levels().
	Level string
	// Pretty enables human-readable console output with colors.
	Pretty bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

var levelOrder = []struct {
	name  string
	level zerolog.Level
}{
	{"trace", zerolog.TraceLevel},
	{"debug", zerolog.DebugLevel},
	{"info", zerolog.InfoLevel},
	{"warn", zerolog.WarnLevel},
	{"error", zerolog.ErrorLevel},
	{"off", zerolog.Disabled},
}

// Levels returns the accepted level names, most verbose first.
func Levels() []string {
	names := make([]string, len(levelOrder))
	for i, l := range levelOrder {
		names[i] = l.name
	}
	return names
}

// ParseLevel maps a level name to a zerolog level. The empty name means warn.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	for _, l := range levelOrder {
		if l.name == name {
			return l.level, nil
		}
	}
	return zerolog.WarnLevel, fmt.Errorf("unknown log level %q (want one of %s)", name, strings.Join(Levels(), ", "))
}

// New creates a logger. An unknown level falls back to warn.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	level, _ := ParseLevel(cfg.Level)
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithComponent tags every event of logger with the emitting component.
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
