package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config captures the minimal settings needed to configure a slog logger.
type Config struct {
	Level  string
	Format string // json or text
}

// ParseLevel converts textual levels into slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "dbg":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a slog.Logger for w. Diagnostics go to stderr by default so that
// stdout only carries the progress lines.
func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
