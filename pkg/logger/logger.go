package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pdf-toolkit/internal/domain"

	"github.com/sirupsen/logrus"
)

// AppLogger implements the domain.Logger interface on top of logrus.
type AppLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger writing to stdout.
// format is "json" or "text"; anything else falls back to text.
func NewLogger(levelStr, format string) domain.Logger {
	return NewLoggerWithOutput(os.Stdout, levelStr, format)
}

// NewLoggerWithOutput is NewLogger with an explicit sink.
func NewLoggerWithOutput(out io.Writer, levelStr, format string) domain.Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(parseLogLevel(levelStr))

	if strings.EqualFold(format, "json") {
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return &AppLogger{entry: logrus.NewEntry(base)}
}

// With returns a child logger carrying the given key/value pairs.
func (l *AppLogger) With(fields ...interface{}) domain.Logger {
	return &AppLogger{entry: l.entry.WithFields(toFields(fields))}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Info(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	e := l.entry.WithFields(toFields(fields))
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Debug(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Warn(msg)
}

// toFields turns alternating key/value arguments into logrus fields.
// A dangling key is kept under "extra".
func toFields(fields []interface{}) logrus.Fields {
	out := make(logrus.Fields, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if i+1 >= len(fields) {
			out["extra"] = key
			break
		}
		out[key] = fields[i+1]
	}
	return out
}

// parseLogLevel converts string log level to a logrus level
func parseLogLevel(levelStr string) logrus.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
