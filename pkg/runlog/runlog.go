// Package runlog provides the durable, append-only log that every
// component writes to as it executes. A crash mid-run still leaves a
// diagnostic trail on disk because entries are flushed as they happen.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Log wraps a structured logger bound to a run-scoped file.
type Log struct {
	*log.Logger
	path string
	file *os.File
}

// Open creates the durable log file inside dir and returns a logger
// writing to it. Each run gets a unique file name so successive runs
// never clobber each other's trail.
func Open(dir string, debug bool) (*Log, error) {
	id := uuid.NewString()[:8]
	path := filepath.Join(dir, fmt.Sprintf("airlift-run-%s.log", id))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	return &Log{
		Logger: logger,
		path:   path,
		file:   f,
	}, nil
}

// Discard returns a logger that drops everything. Used in tests and as
// the fallback when no log could be opened.
func Discard() *Log {
	return &Log{Logger: log.New(io.Discard)}
}

// Path returns the location of the durable log file, or "" for a
// discard logger.
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
