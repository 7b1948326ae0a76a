package logger

import (
	"log/slog"
	"os"
)

// init sets up a fallback logger so tests and driver helpers can use
// logger.Logger before main configures it.
func init() {
	if Logger == nil {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
}
