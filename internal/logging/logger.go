// Package logging wires log/slog for pagedb. Logs always go to a writer
// separate from the REPL output (stderr by default) so the line protocol on
// stdout stays byte-exact.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

// ParseLevel accepts debug, info, warn/warning and error (any case).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}

// New builds a logger writing to w. format is "text" or "json".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "text", "":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	return slog.New(h), nil
}

// SetDefault replaces the package logger and slog's default.
func SetDefault(l *slog.Logger) {
	current.Store(l)
	slog.SetDefault(l)
}

func Logger() *slog.Logger {
	return current.Load()
}

// WithSession tags every record with the REPL session id.
func WithSession(id string) *slog.Logger {
	return Logger().With("session", id)
}

// WithPage is used by the pager for page allocation/flush events.
func WithPage(pageNum uint32) *slog.Logger {
	return Logger().With("page", pageNum)
}
