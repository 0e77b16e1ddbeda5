// Package logger builds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a slog logger: text output at debug level in development,
// JSON at info level otherwise.
func New(env string) *slog.Logger {
	return NewWithWriter(os.Stdout, env)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, env string) *slog.Logger {
	if env == "development" {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
