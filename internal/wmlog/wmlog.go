// Package wmlog is the thin logger fion uses in place of the original
// log_debug/log_warnx calls scattered through layout.c, event.c and
// wm.c. It wraps the standard library's log.Logger; no structured
// logging library is introduced, since a window manager's own debug
// trace has no need for one.
package wmlog

import (
	"log"
	"os"
)

// Logger gates debug output behind a flag, matching the `-d` CLI flag.
// Warnings are always printed.
type Logger struct {
	debug *log.Logger
	warn  *log.Logger
	on    bool
}

// New returns a Logger writing to stderr. Debug output is silent until
// SetDebug(true) is called.
func New() *Logger {
	return &Logger{
		debug: log.New(os.Stderr, "debug: ", log.LstdFlags),
		warn:  log.New(os.Stderr, "warn: ", log.LstdFlags),
	}
}

// SetDebug enables or disables Debugf output.
func (l *Logger) SetDebug(on bool) {
	l.on = on
}

// Debugf logs a debug message if debug logging is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.on {
		return
	}
	l.debug.Printf(format, args...)
}

// Warnf logs a warning. Warnings are never suppressed: unrecognised
// event types are logged and dropped rather than silently ignored.
func (l *Logger) Warnf(format string, args ...any) {
	l.warn.Printf(format, args...)
}
