package config

import "time"

// Default endpoint and timing values.
const (
	DefaultListenAddress   = ":8787"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultUpstreamTimeout is the fixed per-call timeout for upstream
	// requests. Calls are never retried.
	DefaultUpstreamTimeout = 30 * time.Second

	DefaultFakeAPIKey = "FAKE_TESSIE_KEY"

	DefaultCallLogPath   = "data/calllog.db"
	DefaultCallLogBuffer = 1000

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "fleetgate"
)

// ApplyDefaults fills zero-valued fields with default values.
// It is called by LoadConfig before validation.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.FakeAPIKey == "" {
		cfg.Upstream.FakeAPIKey = DefaultFakeAPIKey
	}
	if cfg.Upstream.Fleet.Region == "" {
		cfg.Upstream.Fleet.Region = "na"
	}

	if cfg.CallLog.Path == "" {
		cfg.CallLog.Path = DefaultCallLogPath
	}
	if cfg.CallLog.Buffer <= 0 {
		cfg.CallLog.Buffer = DefaultCallLogBuffer
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
