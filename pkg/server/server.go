package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"fleetgate-hq/fleetgate/pkg/config"
	"fleetgate-hq/fleetgate/pkg/gateway"
	"fleetgate-hq/fleetgate/pkg/security/auth"
	"fleetgate-hq/fleetgate/pkg/telemetry/metrics"
)

// Server is the gateway's HTTP server: the authenticated /api surface, the
// health and status documents, the metrics endpoint and the static-asset
// fallback.
type Server struct {
	config    *config.Config
	gateway   *gateway.Gateway
	collector *metrics.Collector

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server. A nil collector disables the metrics endpoint
// and HTTP metrics.
func NewServer(cfg *config.Config, gw *gateway.Gateway, collector *metrics.Collector) *Server {
	return &Server{
		config:    cfg,
		gateway:   gw,
		collector: collector,
	}
}

// Start runs the server and blocks until the context is canceled, a
// shutdown signal arrives or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server", "address", s.config.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// Handler builds the route tree and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", s.gateway.HealthHandler())
	mux.Handle("/status", s.gateway.StatusHandler())

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		path := s.config.Telemetry.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, s.collector.Handler())
	}

	// The auth gate covers the proxied routes only; health, status, metrics
	// and assets stay open. The secret is read per request so a config
	// reload takes effect without a restart.
	secret := func() string { return config.Current().Auth.JWTSecret }
	mux.Handle("/api/", auth.Middleware(secret)(s.gateway.APIHandler()))

	mux.Handle("/", s.fallbackHandler())

	var handler http.Handler = mux
	if s.collector != nil {
		handler = metricsMiddleware(s.collector)(handler)
	}
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)

	return handler
}

// fallbackHandler serves static assets when an assets directory is
// configured, and a JSON 404 otherwise.
func (s *Server) fallbackHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dir := s.config.Server.AssetsDir
		if dir != "" && r.Method == http.MethodGet {
			name := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
			if info, err := os.Stat(name); err == nil {
				if info.IsDir() {
					name = filepath.Join(name, "index.html")
					if _, err := os.Stat(name); err != nil {
						s.writeNotFound(w)
						return
					}
				}
				http.ServeFile(w, r, name)
				return
			}
		}
		s.writeNotFound(w)
	})
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"Not Found"}`))
}

// IsRunning reports whether the server is accepting traffic.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
