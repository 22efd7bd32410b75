package upstream

import (
	"context"
	"log/slog"
	"time"
)

// CallEvent is the fixed schema emitted for every upstream call, success or
// failure. Transport failures record Status 0.
type CallEvent struct {
	// API is the family name: "tessie", "telemetry" or "fleet".
	API string

	// Endpoint is the relative path that was requested.
	Endpoint string

	// Status is the upstream HTTP status code, 0 on transport failure.
	Status int

	// Duration is the wall-clock duration of the call.
	Duration time.Duration

	// Error is the failure message, empty on success.
	Error string
}

// CallObserver receives one CallEvent per upstream call. Observers must not
// block: they run on the request path.
type CallObserver func(ctx context.Context, ev CallEvent)

// SlogObserver returns an observer that logs call events through slog,
// mirroring the event fields one to one.
func SlogObserver(logger *slog.Logger) CallObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, ev CallEvent) {
		attrs := []any{
			"api", ev.API,
			"endpoint", ev.Endpoint,
			"status", ev.Status,
			"duration_ms", ev.Duration.Milliseconds(),
		}
		if ev.Error != "" {
			attrs = append(attrs, "error", ev.Error)
			logger.WarnContext(ctx, "api_call", attrs...)
			return
		}
		logger.InfoContext(ctx, "api_call", attrs...)
	}
}

// MultiObserver fans one call event out to several observers.
func MultiObserver(observers ...CallObserver) CallObserver {
	return func(ctx context.Context, ev CallEvent) {
		for _, obs := range observers {
			if obs != nil {
				obs(ctx, ev)
			}
		}
	}
}
