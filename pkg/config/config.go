package config

import (
	"sync/atomic"
	"time"
)

// Config is the root configuration for the gateway.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `yaml:"server"`

	// Auth contains caller authentication settings.
	Auth AuthConfig `yaml:"auth"`

	// Upstream contains settings for the three proxied API families.
	Upstream UpstreamConfig `yaml:"upstream"`

	// CallLog contains settings for the upstream call log.
	CallLog CallLogConfig `yaml:"calllog"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to (e.g., ":8787").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading an inbound request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum duration to keep idle connections open.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AssetsDir, when set, serves static files for paths that do not match
	// any API route. Empty disables the assets fallback.
	AssetsDir string `yaml:"assets_dir"`
}

// AuthConfig contains settings for the bearer-token gate in front of the
// proxied routes.
type AuthConfig struct {
	// JWTSecret is the HMAC-SHA256 secret used to verify caller tokens.
	// An empty secret is a deployment error: gated routes answer 500.
	JWTSecret string `yaml:"jwt_secret"`
}

// UpstreamConfig contains per-family credentials and shared client settings.
type UpstreamConfig struct {
	// Tessie configures the Tessie vehicle-REST API family.
	Tessie FamilyConfig `yaml:"tessie"`

	// Telemetry configures the Teslemetry API family.
	Telemetry FamilyConfig `yaml:"telemetry"`

	// Fleet configures the Tesla Fleet API family.
	Fleet FleetConfig `yaml:"fleet"`

	// Timeout is the fixed per-call timeout applied to every upstream request.
	Timeout time.Duration `yaml:"timeout"`

	// FakeMode forces deterministic canned Tessie responses; no upstream
	// traffic is produced. Also triggered when the Tessie key equals FakeAPIKey.
	FakeMode bool `yaml:"fake_mode"`

	// FakeAPIKey is the sentinel key that enables fake responses.
	FakeAPIKey string `yaml:"fake_api_key"`
}

// FamilyConfig configures one upstream API family.
type FamilyConfig struct {
	// APIKey is the bearer token for this family. Empty means the family is
	// not configured and its routes answer 503.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the default base URL (useful for tests).
	BaseURL string `yaml:"base_url"`
}

// FleetConfig configures the Tesla Fleet API family, whose base URL is
// selected by region.
type FleetConfig struct {
	FamilyConfig `yaml:",inline"`

	// Region selects the Fleet API regional endpoint: "na", "eu" or "cn".
	// Unrecognized values fall back to "na".
	Region string `yaml:"region"`
}

// CallLogConfig contains settings for the persisted upstream call log.
type CallLogConfig struct {
	// Enabled turns call logging on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// Buffer is the async write channel size.
	Buffer int `yaml:"buffer"`

	// RetentionDays is how long call records are kept. 0 disables pruning.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns the /metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`

	// Namespace and Subsystem prefix all metric names.
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// current holds the process-wide configuration snapshot. Handlers read it at
// request time; the file watcher swaps it atomically on reload.
var current atomic.Pointer[Config]

// Set replaces the process-wide configuration snapshot.
func Set(cfg *Config) {
	current.Store(cfg)
}

// Current returns the process-wide configuration snapshot. It returns a
// defaulted configuration when none has been set, so tests and library
// callers never observe a nil config.
func Current() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
