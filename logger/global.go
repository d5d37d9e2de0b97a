package logger

import (
	"io"
)

var global = New("wrkldmngr")

// SetLevel sets the logging level for the global logger.
func SetLevel(lvl string) {
	global.SetLevel(lvl)
}

// SetFormatter sets the formatter for the global logger
func SetFormatter(f Formatter) {
	global.SetFormatter(f)
}

// SetOutput sets the output for the global logger
func SetOutput(w io.Writer) {
	global.SetOutput(w)
}

// Discard discards the output for the global logger
func Discard() {
	global.Discard()
}

// Info logs to the global logger at the Info level
func Info(msg string, args ...interface{}) {
	global.Info(msg, args...)
}

// Warn logs to the global logger at the Warn level
func Warn(msg string, args ...interface{}) {
	global.Warn(msg, args...)
}

// Error logs to the global logger at the Error level
func Error(msg string, args ...interface{}) {
	global.Error(msg, args...)
}

// WithFields returns a child logger of the global logger with the given fields.
func WithFields(args ...interface{}) *Logger {
	return global.WithFields(args...)
}

// Configure configures the global logger.
func Configure(c Config) {
	global.Configure(c)
}

// Sub returns a new sub-logger of the global logger.
func Sub(ns string, args ...interface{}) *Logger {
	return global.Sub(ns, args...)
}

// NoOp returns a logger which discards everything. Useful in tests.
func NoOp() *Logger {
	l := New("noop")
	l.Discard()
	return l
}
