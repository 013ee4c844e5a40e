// Package crashsafe installs a last-resort signal handler so a crash
// inside the external rasterizer (a segfault from cgo-bound native
// code, typically) is logged with a backtrace instead of silently
// killing the process with no diagnostic.
package crashsafe

import (
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
)

// caughtSignals are the signals a native rasterizer crash is expected to
// raise. They are not recoverable; the handler logs and then exits with
// the conventional 128+signal status.
var caughtSignals = []os.Signal{syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGILL, syscall.SIGFPE, syscall.SIGABRT}

// Install starts a goroutine that logs a backtrace and exits with
// 128+signal the first time any of caughtSignals arrives. Call it once
// at process startup, before any worker begins rendering.
func Install(log zerolog.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, caughtSignals...)

	go func() {
		sig := <-ch
		log.Error().
			Str("signal", sig.String()).
			Str("stack", string(debug.Stack())).
			Msg("fatal signal; aborting render")

		code := 128
		if s, ok := sig.(syscall.Signal); ok {
			code += int(s)
		}
		os.Exit(code)
	}()
}
