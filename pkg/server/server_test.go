package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fleetgate-hq/fleetgate/pkg/config"
	"fleetgate-hq/fleetgate/pkg/gateway"
	"fleetgate-hq/fleetgate/pkg/security/auth"
	"fleetgate-hq/fleetgate/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "server-test-secret"

// newTestServer installs a fake-mode config and returns the assembled
// handler. Fake mode keeps every upstream call off the network.
func newTestServer(t *testing.T, mutate func(*config.Config)) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Auth.JWTSecret = testSecret
	cfg.Upstream.Tessie.APIKey = cfg.Upstream.FakeAPIKey
	cfg.Upstream.Timeout = 5 * time.Second
	if mutate != nil {
		mutate(cfg)
	}

	prev := config.Current()
	config.Set(cfg)
	t.Cleanup(func() { config.Set(prev) })

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	return NewServer(cfg, gateway.New(nil), collector).Handler()
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := auth.MintToken(testSecret, "tester", time.Minute, nil)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}
	return "Bearer " + token
}

func TestAPIRequiresToken(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/tessie/vehicles", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tessie/vehicles", nil)
	req.Header.Set("Authorization", bearer(t))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status with token = %d, want 200 (%s)", w.Code, w.Body.String())
	}
}

func TestHealthAndStatusAreOpen(t *testing.T) {
	handler := newTestServer(t, nil)

	for _, path := range []string{"/health", "/status"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s without token = %d, want 200", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s Content-Type = %q, want application/json", path, ct)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t, func(cfg *config.Config) {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.Path = "/metrics"
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("/metrics = %d, want 200", w.Code)
	}
}

func TestFallbackIs404JSON(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("404 body is not JSON: %v", err)
	}
	if body["error"] != "Not Found" {
		t.Errorf("error = %q, want Not Found", body["error"])
	}
}

func TestAssetsFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>fleet</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.AssetsDir = dir
	})

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("asset request = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "<html>fleet</html>" {
		t.Errorf("asset body = %q", got)
	}

	// Paths outside the assets directory must not resolve.
	req = httptest.NewRequest(http.MethodGet, "/../secret", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Error("traversal path served, want refusal")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("response missing generated request ID")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-id-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "client-id-123" {
		t.Errorf("request ID = %q, want client-supplied client-id-123", got)
	}
}

func TestRouteFamily(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/tessie/vehicles", "tessie"},
		{"/api/telemetry/ping", "telemetry"},
		{"/api/fleet/vehicles", "fleet"},
		{"/health", "system"},
		{"/metrics", "system"},
		{"/index.html", "other"},
	}
	for _, tt := range tests {
		if got := routeFamily(tt.path); got != tt.want {
			t.Errorf("routeFamily(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
