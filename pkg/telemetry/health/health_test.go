package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetgate-hq/fleetgate/pkg/config"
	"fleetgate-hq/fleetgate/pkg/upstream"
)

func TestWorst(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty is unknown", nil, StatusUnknown},
		{"all healthy", []Status{StatusHealthy, StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one unhealthy dominates", []Status{StatusHealthy, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
		{"degraded without unhealthy", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
		{"unknown never dominates", []Status{StatusUnknown, StatusHealthy}, StatusHealthy},
		{"all unknown", []Status{StatusUnknown, StatusUnknown}, StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Worst(tt.statuses...); got != tt.want {
				t.Errorf("Worst(%v) = %v, want %v", tt.statuses, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil is healthy", nil, StatusHealthy},
		{"401 is degraded", &upstream.APIError{StatusCode: 401}, StatusDegraded},
		{"404 is degraded", &upstream.APIError{StatusCode: 404}, StatusDegraded},
		{"500 is unhealthy", &upstream.APIError{StatusCode: 500}, StatusUnhealthy},
		{"503 is unhealthy", &upstream.APIError{StatusCode: 503}, StatusUnhealthy},
		{"transport failure is unhealthy", &upstream.APIError{StatusCode: 0}, StatusUnhealthy},
		{"plain error is unhealthy", context.DeadlineExceeded, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// fakeUpstream starts a test server answering every request with the given
// status and returns its URL.
func fakeUpstream(t *testing.T, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func clientSet(t *testing.T, cfg config.UpstreamConfig) *upstream.ClientSet {
	t.Helper()
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	cs := upstream.NewClientSet(&cfg, nil)
	t.Cleanup(cs.Close)
	return cs
}

func TestCheckAll(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		cs := clientSet(t, config.UpstreamConfig{
			Tessie:    config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 200)},
			Telemetry: config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 200)},
			Fleet: config.FleetConfig{
				FamilyConfig: config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 200)},
			},
		})

		report := New(0).CheckAll(context.Background(), cs)

		if report.Status != StatusHealthy {
			t.Errorf("aggregate = %v, want healthy", report.Status)
		}
		if len(report.APIs) != 3 {
			t.Fatalf("got %d family results, want 3", len(report.APIs))
		}
		for family, result := range report.APIs {
			if result.Status != StatusHealthy {
				t.Errorf("%s status = %v, want healthy", family, result.Status)
			}
			if result.ResponseTimeMS <= 0 {
				t.Errorf("%s response time not recorded", family)
			}
		}
	})

	t.Run("one unhealthy dominates", func(t *testing.T) {
		cs := clientSet(t, config.UpstreamConfig{
			Tessie:    config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 200)},
			Telemetry: config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 500)},
			Fleet: config.FleetConfig{
				FamilyConfig: config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 200)},
			},
		})

		report := New(0).CheckAll(context.Background(), cs)

		if report.Status != StatusUnhealthy {
			t.Errorf("aggregate = %v, want unhealthy", report.Status)
		}
		if report.APIs["tessie"].Status != StatusHealthy {
			t.Errorf("tessie = %v, failing sibling must not affect it", report.APIs["tessie"].Status)
		}
	})

	t.Run("client error is degraded", func(t *testing.T) {
		cs := clientSet(t, config.UpstreamConfig{
			Tessie: config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 401)},
			Telemetry: config.FamilyConfig{
				APIKey: "k", BaseURL: fakeUpstream(t, 200),
			},
		})

		report := New(0).CheckAll(context.Background(), cs)

		if report.Status != StatusDegraded {
			t.Errorf("aggregate = %v, want degraded", report.Status)
		}
		if got := report.APIs["tessie"].Error; !strings.HasPrefix(got, "HTTP 401") {
			t.Errorf("tessie error = %q, want HTTP 401 prefix", got)
		}
	})

	t.Run("unconfigured family excluded from aggregate", func(t *testing.T) {
		cs := clientSet(t, config.UpstreamConfig{
			Tessie: config.FamilyConfig{APIKey: "k", BaseURL: fakeUpstream(t, 200)},
		})

		report := New(0).CheckAll(context.Background(), cs)

		if report.Status != StatusHealthy {
			t.Errorf("aggregate = %v, want healthy despite unconfigured families", report.Status)
		}
		for _, family := range []string{"telemetry", "fleet"} {
			result := report.APIs[family]
			if result.Status != StatusUnknown {
				t.Errorf("%s status = %v, want unknown", family, result.Status)
			}
			if result.Error != notConfiguredMessage {
				t.Errorf("%s error = %q, want %q", family, result.Error, notConfiguredMessage)
			}
		}
	})

	t.Run("nothing configured is unknown", func(t *testing.T) {
		cs := clientSet(t, config.UpstreamConfig{})

		report := New(0).CheckAll(context.Background(), cs)

		if report.Status != StatusUnknown {
			t.Errorf("aggregate = %v, want unknown", report.Status)
		}
	})

	t.Run("transport failure is unhealthy", func(t *testing.T) {
		cs := clientSet(t, config.UpstreamConfig{
			// Closed port; the probe fails before any HTTP exchange.
			Tessie:  config.FamilyConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"},
			Timeout: 2 * time.Second,
		})

		report := New(0).CheckAll(context.Background(), cs)

		if report.Status != StatusUnhealthy {
			t.Errorf("aggregate = %v, want unhealthy", report.Status)
		}
		if got := report.APIs["tessie"].Error; !strings.HasPrefix(got, "Request failed:") {
			t.Errorf("tessie error = %q, want Request failed prefix", got)
		}
	})
}

func TestCheckAuth(t *testing.T) {
	cs := clientSet(t, config.UpstreamConfig{
		Tessie:    config.FamilyConfig{APIKey: "good", BaseURL: fakeUpstream(t, 200)},
		Telemetry: config.FamilyConfig{APIKey: "bad", BaseURL: fakeUpstream(t, 401)},
	})

	report := New(0).CheckAuth(context.Background(), cs)

	if got := report.APIs["tessie"]; !got.Configured || !got.Valid {
		t.Errorf("tessie = %+v, want configured and valid", got)
	}
	if got := report.APIs["telemetry"]; !got.Configured || got.Valid {
		t.Errorf("telemetry = %+v, want configured but invalid", got)
	}
	if got := report.APIs["fleet"]; got.Configured || got.Valid {
		t.Errorf("fleet = %+v, want unconfigured", got)
	}
}
