// Package logging configures the process-wide logrus logger. The TUI owns the
// terminal, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options configures Setup
type Options struct {
	File  string // "" or "-" writes to stderr
	Level string
	Debug bool
}

// Setup points the standard logrus logger at opts.File and returns a closer
func Setup(opts Options) (func() error, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Debug {
		level = logrus.DebugLevel
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	if opts.File == "" || opts.File == "-" {
		logrus.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f.Close, nil
}

// Discard silences logging, for tests and headless output
func Discard() {
	logrus.SetOutput(io.Discard)
}
