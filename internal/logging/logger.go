package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes human-oriented status lines to stderr.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a new logger instance. Colour is also disabled when NO_COLOR is set.
func New(debug, noColor bool) *Logger {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		noColor = true
	}
	return &Logger{
		debug:   debug,
		noColor: noColor,
		out:     os.Stderr,
	}
}

// WithWriter redirects output, mostly for tests.
func (l *Logger) WithWriter(w io.Writer) *Logger {
	l.out = w
	return l
}

// Color reports whether ANSI colour is allowed.
func (l *Logger) Color() bool {
	return !l.noColor
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit("\033[32m", "✓", fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit("\033[33m", "⚠", fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit("\033[31m", "✗", fmt.Sprintf(format, args...))
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.emit("\033[36m", "[DEBUG]", fmt.Sprintf(format, args...))
}

// Plain writes a line without any prefix.
func (l *Logger) Plain(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *Logger) emit(color, glyph, msg string) {
	if l.noColor {
		_, _ = fmt.Fprintf(l.out, "%s %s\n", glyph, msg)
		return
	}
	_, _ = fmt.Fprintf(l.out, "%s%s\033[0m %s\n", color, glyph, msg)
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if secret != "" && len(secret) > 3 { // Only redact non-trivial secrets
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
