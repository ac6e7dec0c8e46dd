// Package errors holds cleanup helpers shared by the command layer.
package errors

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// DeferClose closes closer and logs a failure instead of dropping it.
// A nil closer is ignored.
func DeferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}

// DeferRecover turns a panic raised while running an inspection command into
// a printed diagnostic so an interactive session survives it. It must be
// called directly from a defer statement.
func DeferRecover(logger zerolog.Logger, w io.Writer, command string) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error().Interface("panic", r).Str("command", command).Msg("command panicked")
	_, _ = fmt.Fprintf(w, "Error: %s failed: %v\n", command, r)
}
