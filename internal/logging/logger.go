package logging

import (
	"fmt"
	"io"
	"os"
)

// Logger provides leveled logging to stderr. Generated secrets are never passed to it.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a new logger instance
func New(debug, noColor bool) *Logger {
	return &Logger{
		debug:   debug,
		noColor: noColor,
	}
}

// WithOutput redirects the logger, mainly for tests.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	l.out = w
	return l
}

// DebugEnabled reports whether Debug messages are emitted.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

func (l *Logger) writer() io.Writer {
	if l.out != nil {
		return l.out
	}
	return os.Stderr
}

func (l *Logger) emit(color, symbol, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !l.noColor {
		_, _ = fmt.Fprintf(l.writer(), "\033[%sm%s\033[0m %s\n", color, symbol, msg)
	} else {
		_, _ = fmt.Fprintf(l.writer(), "%s %s\n", symbol, msg)
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit("32", "✓", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit("33", "⚠", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit("31", "✗", format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.emit("36", "[DEBUG]", format, args...)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(false, true).WithOutput(io.Discard)
}
