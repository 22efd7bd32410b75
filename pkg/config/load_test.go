package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads valid config", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  listen_address: ":9090"
auth:
  jwt_secret: test-secret
upstream:
  tessie:
    api_key: tessie-key
  fleet:
    api_key: fleet-key
    region: eu
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if cfg.Server.ListenAddress != ":9090" {
			t.Errorf("listen_address = %q, want :9090", cfg.Server.ListenAddress)
		}
		if cfg.Auth.JWTSecret != "test-secret" {
			t.Errorf("jwt_secret = %q, want test-secret", cfg.Auth.JWTSecret)
		}
		if cfg.Upstream.Fleet.Region != "eu" {
			t.Errorf("fleet region = %q, want eu", cfg.Upstream.Fleet.Region)
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfigFile(t, `{}`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if cfg.Server.ListenAddress != DefaultListenAddress {
			t.Errorf("listen_address = %q, want default %q", cfg.Server.ListenAddress, DefaultListenAddress)
		}
		if cfg.Upstream.Timeout != DefaultUpstreamTimeout {
			t.Errorf("upstream timeout = %s, want %s", cfg.Upstream.Timeout, DefaultUpstreamTimeout)
		}
		if cfg.Upstream.Fleet.Region != "na" {
			t.Errorf("fleet region = %q, want na", cfg.Upstream.Fleet.Region)
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "server: [not a mapping")

		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Run("canonical env names override file", func(t *testing.T) {
		path := writeConfigFile(t, `
auth:
  jwt_secret: file-secret
upstream:
  tessie:
    api_key: file-key
`)

		t.Setenv("JWT_SECRET", "env-secret")
		t.Setenv("TESSIE_API_KEY", "env-key")
		t.Setenv("TESLEMETRY_API_KEY", "env-telemetry")
		t.Setenv("FLEET_API_KEY", "env-fleet")
		t.Setenv("FLEET_REGION", "cn")

		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
		}

		if cfg.Auth.JWTSecret != "env-secret" {
			t.Errorf("jwt_secret = %q, want env-secret", cfg.Auth.JWTSecret)
		}
		if cfg.Upstream.Tessie.APIKey != "env-key" {
			t.Errorf("tessie api_key = %q, want env-key", cfg.Upstream.Tessie.APIKey)
		}
		if cfg.Upstream.Telemetry.APIKey != "env-telemetry" {
			t.Errorf("telemetry api_key = %q, want env-telemetry", cfg.Upstream.Telemetry.APIKey)
		}
		if cfg.Upstream.Fleet.Region != "cn" {
			t.Errorf("fleet region = %q, want cn", cfg.Upstream.Fleet.Region)
		}
	})

	t.Run("missing file uses defaults plus environment", func(t *testing.T) {
		t.Setenv("TESSIE_API_KEY", "only-env")

		cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
		}

		if cfg.Upstream.Tessie.APIKey != "only-env" {
			t.Errorf("tessie api_key = %q, want only-env", cfg.Upstream.Tessie.APIKey)
		}
		if cfg.Server.ListenAddress != DefaultListenAddress {
			t.Errorf("listen_address = %q, want default", cfg.Server.ListenAddress)
		}
	})

	t.Run("prefixed overrides parse durations", func(t *testing.T) {
		t.Setenv("FLEETGATE_UPSTREAM_TIMEOUT", "45s")
		t.Setenv("FLEETGATE_UPSTREAM_FAKE_MODE", "true")

		cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
		}

		if cfg.Upstream.Timeout != 45*time.Second {
			t.Errorf("upstream timeout = %s, want 45s", cfg.Upstream.Timeout)
		}
		if !cfg.Upstream.FakeMode {
			t.Error("fake mode should be enabled")
		}
	})
}

func TestCurrentSnapshot(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Upstream.Tessie.APIKey = "snapshot-key"
	Set(cfg)
	t.Cleanup(func() { Set(&Config{}) })

	got := Current()
	if got.Upstream.Tessie.APIKey != "snapshot-key" {
		t.Errorf("Current().Upstream.Tessie.APIKey = %q, want snapshot-key", got.Upstream.Tessie.APIKey)
	}
}
