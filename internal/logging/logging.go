package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options controls logger construction
type Options struct {
	Mode  string // "development" or anything else for JSON
	Level string
	// Color enables ANSI colours in development mode; leave off when writing to a file
	Color bool
}

// New builds the application logger writing to w
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	if opts.Mode == "development" || opts.Mode == "" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    !opts.Color,
		}))
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// OpenFile opens (or creates) the log file in append mode.
// The returned closer is a no-op when the file could not be opened and logs go to io.Discard.
func OpenFile(path string) (io.Writer, func() error) {
	if path == "" {
		return io.Discard, func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard, func() error { return nil }
	}
	return f, f.Close
}

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
