// Package logging selects the slog handler for the process: JSON for
// production output, tint's colorized handler when attached to a terminal.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// NewHandler returns the slog handler for out at the given level. When out is
// a terminal the colorized development handler is used; otherwise JSON.
func NewHandler(out io.Writer, level slog.Level) slog.Handler {
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
}

// Setup installs the default logger for the process and returns it.
func Setup(level slog.Level) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, level))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string onto a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
