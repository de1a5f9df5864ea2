package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrorLog is the append-only file log kept across batch runs
type ErrorLog struct {
	*slog.Logger
	file io.Closer
}

// OpenErrorLog opens (creating if needed) the log file at path. An empty path
// discards everything.
func OpenErrorLog(path string) (*ErrorLog, error) {
	if path == "" {
		return &ErrorLog{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, nil
	}

	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening error log: %w", err)
	}

	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &ErrorLog{Logger: slog.New(handler), file: logFile}, nil
}

// Close flushes and closes the underlying file
func (l *ErrorLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
