package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards subprocess output to slog.
type Writer struct {
	logger *slog.Logger
	level  slog.Level
}

// NewWriter constructs a Writer bound to the provided logger and level.
func NewWriter(logger *slog.Logger, level slog.Level) *Writer {
	return &Writer{logger: logger, level: level}
}

// Write logs each non-empty line of the given bytes at the configured level.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger != nil {
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			if line != "" {
				w.logger.Log(context.Background(), w.level, "subprocess output", "line", line)
			}
		}
	}
	return len(p), nil
}
