// Package log owns the process-wide slog setup.
//
// Commands call Init once at startup; library packages take scoped loggers
// via slog.Default().With("component", ...). Output is a text handler for
// interactive runs and switches to JSON when GO_ENV=production so the host
// can ship structured lines.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var setup sync.Once

// Init configures the default logger. The level is one of debug, info,
// warn, or error; anything unrecognized falls back to info. Repeat calls
// are no-ops.
func Init(level string) {
	setup.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(level)}

		var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
		if os.Getenv("GO_ENV") == "production" {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		}
		slog.SetDefault(slog.New(handler))
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// L returns the configured logger, initializing at info level if Init was
// never called.
func L() *slog.Logger {
	Init("info")
	return slog.Default()
}
