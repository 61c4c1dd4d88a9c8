// ABOUTME: Structured leveled logging built on charmbracelet/log.
// ABOUTME: Logs go to stderr for commands and to a file while the TUI owns the terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const prefix = "care4u"

// New returns a logger writing text lines to w at the given level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}

// ParseLevel maps a config string onto a log level. Empty means info.
func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// OpenFile returns a logger appending logfmt lines to path, creating parent directories.
// Close the returned file when done.
func OpenFile(path, level string) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	logger.SetFormatter(log.LogfmtFormatter)
	logger.SetTimeFormat(time.RFC3339)
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
