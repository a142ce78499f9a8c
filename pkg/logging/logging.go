// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.Setup(slog.LevelInfo)
//
// Environment variables:
//
//	NO_COLOR: disables ANSI colors when set
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tint handler on stderr as the default slog logger and
// returns it.
func Setup(level slog.Level) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, level, os.Getenv("NO_COLOR") == ""))
	slog.SetDefault(logger)
	return logger
}

// NewHandler returns a tint handler writing to w at the given level.
func NewHandler(w io.Writer, level slog.Level, color bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
		NoColor:    !color,
	})
}
