// Package logger contains the structured logging used by wrkldmngr.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey string

// RunIDKey is the context key under which the current run id is stored.
// A context passed as a log argument adds a "runID" field.
const RunIDKey ctxKey = "runID"

// Formatter is an alias to logrus.Formatter.
type Formatter = logrus.Formatter

// Logger handles structured logging for a namespace.
type Logger struct {
	base   *logrus.Logger
	ns     string
	fields logrus.Fields
}

// NewLogger returns a new Logger instance configured with conf.
func NewLogger(ns string, conf Config) *Logger {
	l := New(ns)
	l.Configure(conf)
	return l
}

// New returns a new Logger instance using the default formatter.
// After the namespace, args are key-value pairs added to every message.
func New(ns string, args ...interface{}) *Logger {
	base := logrus.New()
	base.Out = os.Stderr
	l := &Logger{
		base:   base,
		ns:     ns,
		fields: fields(args...),
	}
	l.fields["ns"] = ns
	l.Configure(DefaultConfig())
	return l
}

// Sub returns a child logger in the given namespace which shares the parent's
// output, level and formatter.
func (l *Logger) Sub(ns string, args ...interface{}) *Logger {
	f := logrus.Fields{}
	for k, v := range l.fields {
		f[k] = v
	}
	for k, v := range fields(args...) {
		f[k] = v
	}
	f["ns"] = ns
	return &Logger{base: l.base, ns: ns, fields: f}
}

// WithFields returns a new Logger instance with the given fields added to all log messages.
func (l *Logger) WithFields(args ...interface{}) *Logger {
	f := logrus.Fields{}
	for k, v := range l.fields {
		f[k] = v
	}
	for k, v := range fields(args...) {
		f[k] = v
	}
	return &Logger{base: l.base, ns: l.ns, fields: f}
}

// SetLevel sets the level of logging
func (l *Logger) SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		l.base.SetLevel(logrus.DebugLevel)
	case "info":
		l.base.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		l.base.SetLevel(logrus.WarnLevel)
	case "error":
		l.base.SetLevel(logrus.ErrorLevel)
	default:
		l.base.SetLevel(logrus.InfoLevel)
	}
}

// SetFormatter sets the formatter for the logger.
func (l *Logger) SetFormatter(f Formatter) {
	l.base.SetFormatter(f)
}

// SetOutput sets the output for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// Discard configures the logger to discard all logs.
func (l *Logger) Discard() {
	l.base.SetOutput(io.Discard)
}

// Debug logs a debug message.
//
// After the first argument, arguments are key-value pairs which are written as structured logs.
//
//	log.Debug("Some message here", "key1", value1, "key2", value2)
func (l *Logger) Debug(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Debug(msg)
}

// Info logs an info message
//
// After the first argument, arguments are key-value pairs which are written as structured logs.
//
//	log.Info("Some message here", "key1", value1, "key2", value2)
func (l *Logger) Info(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Warn(msg)
}

// Error logs an error message
//
// After the first argument, arguments are key-value pairs which are written as structured logs.
//
//	log.Error("Some message here", "key1", value1, "key2", value2)
//
// Error has a two-argument version that can be used as a shortcut.
//
//	err := startServer()
//	log.Error("Couldn't start server", err)
func (l *Logger) Error(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Error(msg)
}

func (l *Logger) entry(args ...interface{}) *logrus.Entry {
	f := logrus.Fields{}
	for k, v := range l.fields {
		f[k] = v
	}
	for k, v := range fields(args...) {
		f[k] = v
	}
	return l.base.WithFields(f)
}

// recoverLogErr is used to recover from any panics during logging.
// Panics aren't expected of course, but logging should never crash
// a program, so this failsafe tries to prevent those crashes.
func recoverLogErr() {
	if r := recover(); r != nil {
		fmt.Println("Recovered from logging panic", r)
	}
}

// PrintSimpleError prints out an error message with a red "ERROR:" prefix.
func PrintSimpleError(err error) {
	fmt.Fprintf(os.Stderr, "\x1b[%dm%s\x1b[0m %s\n", 31, "ERROR:", err.Error())
}

// fields converts a list of key-value args into logrus fields.
// A lone error becomes the "error" field and a context contributes its run id.
func fields(args ...interface{}) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	var rest []interface{}
	for _, a := range args {
		switch x := a.(type) {
		case context.Context:
			if id, ok := x.Value(RunIDKey).(string); ok && id != "" {
				f["runID"] = id
			}
		case error:
			if len(args) == 1 || len(rest)%2 == 0 {
				f["error"] = x.Error()
				continue
			}
			rest = append(rest, a)
		default:
			rest = append(rest, a)
		}
	}
	if len(rest) == 1 {
		f["unknown"] = rest[0]
		return f
	}
	for i := 0; i+1 < len(rest); i += 2 {
		k, ok := rest[i].(string)
		if !ok {
			k = fmt.Sprint(rest[i])
		}
		f[k] = rest[i+1]
	}
	if len(rest)%2 != 0 {
		f["unknown"] = rest[len(rest)-1]
	}
	return f
}
