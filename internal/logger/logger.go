// Package logger provides the process-wide diagnostics logger. It wraps
// logrus so components can attach a "component" field and structured fields
// without depending on logrus directly.
//
// Diagnostics are separate from the milestone audit trail (package auditlog):
// they carry levels, may be JSON, and may be written to a rotated file.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias-like map so callers need not import logrus.
type Fields map[string]any

// Config controls level, format and destination.
type Config struct {
	// Level is a logrus level name (debug, info, warn, error). Empty falls
	// back to $LOG_LEVEL and then "info".
	Level string
	// Format is "text" or "json".
	Format string
	// Output is "stderr", "stdout" or a file path. File output is rotated.
	Output string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// Entry wraps logrus.Entry.
type Entry struct {
	*logrus.Entry
}

// New builds a Log from cfg.
func New(cfg Config) (*Log, error) {
	l := logrus.New()

	levelStr := cfg.Level
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	if levelStr == "" {
		levelStr = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	l.SetOutput(outputFor(cfg))
	return &Log{Logger: l}, nil
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Log {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Log{Logger: l}
}

func outputFor(cfg Config) io.Writer {
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	}
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}

// WithComponent returns an entry tagged with component.
func (l *Log) WithComponent(component string) *Entry {
	return &Entry{Entry: l.Logger.WithField("component", component)}
}

// WithFields returns an entry carrying fields.
func (l *Log) WithFields(fields Fields) *Entry {
	return &Entry{Entry: l.Logger.WithFields(logrus.Fields(fields))}
}

// WithComponent returns a copy of e tagged with component.
func (e *Entry) WithComponent(component string) *Entry {
	return &Entry{Entry: e.Entry.WithField("component", component)}
}

// WithFields returns a copy of e carrying fields.
func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{Entry: e.Entry.WithFields(logrus.Fields(fields))}
}

// WithError returns a copy of e carrying err.
func (e *Entry) WithError(err error) *Entry {
	return &Entry{Entry: e.Entry.WithError(err)}
}
