package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup creates a logger and sets it as the process-wide default.
func Setup(level string) {
	slog.SetDefault(New(os.Stderr, level))
}

// New returns a text logger writing to w. Unknown levels fall back to warn so
// log lines do not interleave with rendered results.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
