package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults and validates the result. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Two families of variables are recognized:
// the canonical deployment names (JWT_SECRET, TESSIE_API_KEY,
// TESLEMETRY_API_KEY, FLEET_API_KEY, FLEET_REGION) and the prefixed form
// FLEETGATE_SECTION_FIELD. Environment variables take precedence over the file.
//
// When the file does not exist, the configuration is built from defaults and
// environment alone, so a credentials-only deployment needs no config file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = &Config{}
		ApplyDefaults(cfg)
	} else {
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Canonical deployment names, matching the worker environment this
	// gateway replaces.
	if val := os.Getenv("JWT_SECRET"); val != "" {
		cfg.Auth.JWTSecret = val
	}
	if val := os.Getenv("TESSIE_API_KEY"); val != "" {
		cfg.Upstream.Tessie.APIKey = val
	}
	if val := os.Getenv("TESLEMETRY_API_KEY"); val != "" {
		cfg.Upstream.Telemetry.APIKey = val
	}
	if val := os.Getenv("FLEET_API_KEY"); val != "" {
		cfg.Upstream.Fleet.APIKey = val
	}
	if val := os.Getenv("FLEET_REGION"); val != "" {
		cfg.Upstream.Fleet.Region = val
	}

	// Prefixed overrides.
	if val := os.Getenv("FLEETGATE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("FLEETGATE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("FLEETGATE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("FLEETGATE_SERVER_ASSETS_DIR"); val != "" {
		cfg.Server.AssetsDir = val
	}

	if val := os.Getenv("FLEETGATE_UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}
	if val := os.Getenv("FLEETGATE_UPSTREAM_FAKE_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Upstream.FakeMode = b
		}
	}
	if val := os.Getenv("FLEETGATE_UPSTREAM_TESSIE_BASE_URL"); val != "" {
		cfg.Upstream.Tessie.BaseURL = val
	}
	if val := os.Getenv("FLEETGATE_UPSTREAM_TELEMETRY_BASE_URL"); val != "" {
		cfg.Upstream.Telemetry.BaseURL = val
	}
	if val := os.Getenv("FLEETGATE_UPSTREAM_FLEET_BASE_URL"); val != "" {
		cfg.Upstream.Fleet.BaseURL = val
	}

	if val := os.Getenv("FLEETGATE_CALLLOG_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.CallLog.Enabled = b
		}
	}
	if val := os.Getenv("FLEETGATE_CALLLOG_PATH"); val != "" {
		cfg.CallLog.Path = val
	}
	if val := os.Getenv("FLEETGATE_CALLLOG_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.CallLog.RetentionDays = i
		}
	}
	if val := os.Getenv("FLEETGATE_CALLLOG_PRUNE_SCHEDULE"); val != "" {
		cfg.CallLog.PruneSchedule = val
	}

	if val := os.Getenv("FLEETGATE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("FLEETGATE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("FLEETGATE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("FLEETGATE_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}

// Initialize loads the configuration from path with environment overrides and
// installs it as the process-wide snapshot.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	Set(cfg)
	return nil
}
