// Package logging builds the zerolog logger every command and internal
// package shares, binding its level and destination to the run's flags.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to dst at info level, or debug level when
// debug is true. Stream mode must bind dst to os.Stderr: stdout is
// reserved for the encoded frame stream itself.
func New(dst io.Writer, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(dst).Level(level).With().Timestamp().Str("service", "render").Logger()
}

// Stdout returns the ordinary command-mode destination.
func Stdout() io.Writer { return os.Stdout }

// Stderr returns the stream-mode destination; used whenever --stream is
// set so log lines never interleave with the frame bytes written to
// stdout.
func Stderr() io.Writer { return os.Stderr }
