// Package auditlog records pipeline milestones to a durable, append-only text
// file. Each milestone is a single line:
//
//	2023-09-08-09:16:35 : Data saved to CSV file
//
// The file is opened in append mode for every entry and closed again, so the
// trail survives a crash between stages. It is never truncated or rotated.
package auditlog

import (
	"fmt"
	"os"
	"time"
)

// TimestampLayout is the Go layout for YYYY-MM-DD-HH:MM:SS.
const TimestampLayout = "2006-01-02-15:04:05"

// Milestone messages written by the pipeline.
const (
	MsgPreliminaries   = "Preliminaries complete. Initiating ETL process"
	MsgExtracted       = "Data extraction complete. Initiating Transformation process"
	MsgTransformed     = "Data transformation complete. Initiating Loading process"
	MsgCSVSaved        = "Data saved to CSV file"
	MsgParquetSaved    = "Data saved to Parquet file"
	MsgConnected       = "SQL Connection initiated"
	MsgDBLoaded        = "Data loaded to Database as a table, Executing queries"
	MsgQueryExecuted   = "Query executed successfully"
	MsgConnectionClose = "Server Connection closed"
)

// Logger appends milestone lines to a file.
type Logger struct {
	path string
	now  func() time.Time
}

// New returns a Logger writing to path. The file is created on first use.
func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Path returns the file the logger appends to.
func (l *Logger) Path() string { return l.path }

// Log appends "<timestamp> : <message>\n".
func (l *Logger) Log(message string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("auditlog: open: %w", err)
	}
	line := l.now().Format(TimestampLayout) + " : " + message + "\n"
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("auditlog: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("auditlog: close: %w", err)
	}
	return nil
}
