package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// fleetRegions are the recognized Fleet API region codes. Validation warns on
// other values by normalizing them to "na" rather than rejecting the config;
// upstream selection applies the same fallback.
var fleetRegions = map[string]bool{"na": true, "eu": true, "cn": true}

// Validate checks the configuration for errors that would prevent the gateway
// from starting. Missing credentials are not errors: an unconfigured family
// simply answers 503 at dispatch time.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %s", cfg.Server.WriteTimeout)
	}

	if cfg.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", cfg.Upstream.Timeout)
	}
	if !fleetRegions[cfg.Upstream.Fleet.Region] {
		cfg.Upstream.Fleet.Region = "na"
	}

	if cfg.CallLog.Enabled {
		if cfg.CallLog.Path == "" {
			return fmt.Errorf("calllog.path must not be empty when call logging is enabled")
		}
		if cfg.CallLog.RetentionDays < 0 {
			return fmt.Errorf("calllog.retention_days must not be negative, got %d", cfg.CallLog.RetentionDays)
		}
		if cfg.CallLog.PruneSchedule != "" {
			if _, err := cron.ParseStandard(cfg.CallLog.PruneSchedule); err != nil {
				return fmt.Errorf("calllog.prune_schedule is not a valid cron expression: %w", err)
			}
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}
