// Package logger provides the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global logger used by packages that have no injected
// logger (driver-level helpers). main overrides it via Init.
var Logger *slog.Logger

// Init configures the global JSON logger and returns it. The log level is
// taken from LOG_LEVEL (debug, info, warn, error), defaulting to info.
func Init() *slog.Logger {
	level := slog.LevelInfo

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(l.String()))}
				}
			}
			return a
		},
	})

	Logger = slog.New(handler).With("service", "review-processor")

	return Logger
}
