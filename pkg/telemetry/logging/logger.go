package logging

import (
	"io"
	"log/slog"
	"os"

	"fleetgate-hq/fleetgate/pkg/config"
)

// New builds a structured logger from the logging configuration. Unknown
// levels fall back to info and unknown formats to JSON, so a typo in the
// config never silences logging.
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Setup builds the logger and installs it as the process default, so package
// code using the slog top-level functions picks it up.
func Setup(cfg config.LoggingConfig) *slog.Logger {
	logger := New(cfg, os.Stdout)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch level {
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
