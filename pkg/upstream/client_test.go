package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetgate-hq/fleetgate/pkg/config"
)

func testUpstreamConfig(baseURL string) *config.UpstreamConfig {
	return &config.UpstreamConfig{
		Tessie:     config.FamilyConfig{APIKey: "tessie-key", BaseURL: baseURL},
		Telemetry:  config.FamilyConfig{APIKey: "telemetry-key", BaseURL: baseURL},
		Fleet:      config.FleetConfig{FamilyConfig: config.FamilyConfig{APIKey: "fleet-key", BaseURL: baseURL}, Region: "na"},
		Timeout:    5 * time.Second,
		FakeAPIKey: config.DefaultFakeAPIKey,
	}
}

func TestRequestSuccess(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"vin":"5YJ3E1EA1NF000001","state":"online"}`))
	}))
	defer server.Close()

	cs := NewClientSet(testUpstreamConfig(server.URL), nil)
	defer cs.Close()

	got, err := cs.Tessie.State(context.Background(), "5YJ3E1EA1NF000001")
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}

	if gotAuth != "Bearer tessie-key" {
		t.Errorf("Authorization = %q, want Bearer tessie-key", gotAuth)
	}
	if gotPath != "/5YJ3E1EA1NF000001/state" {
		t.Errorf("path = %q, want /5YJ3E1EA1NF000001/state", gotPath)
	}
	if string(got) != `{"vin":"5YJ3E1EA1NF000001","state":"online"}` {
		t.Errorf("response body modified: %s", got)
	}
}

func TestRequestUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
	}))
	defer server.Close()

	cs := NewClientSet(testUpstreamConfig(server.URL), nil)
	defer cs.Close()

	_, err := cs.Telemetry.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "HTTP 401: Unauthorized" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "HTTP 401: Unauthorized")
	}
	if apiErr.HTTPStatus() != http.StatusUnauthorized {
		t.Errorf("HTTPStatus() = %d, want 401", apiErr.HTTPStatus())
	}
}

func TestRequestTransportFailure(t *testing.T) {
	// Port from a closed listener: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	cs := NewClientSet(testUpstreamConfig(baseURL), nil)
	defer cs.Close()

	_, err := cs.Telemetry.Ping(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", apiErr.StatusCode)
	}
	if !strings.HasPrefix(apiErr.Message, "Request failed: ") {
		t.Errorf("Message = %q, want Request failed prefix", apiErr.Message)
	}
	if apiErr.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("HTTPStatus() = %d, want 500", apiErr.HTTPStatus())
	}
}

func TestObserverReceivesEveryCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ping" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	var events []CallEvent
	observer := func(ctx context.Context, ev CallEvent) {
		events = append(events, ev)
	}

	cs := NewClientSet(testUpstreamConfig(server.URL), observer)
	defer cs.Close()

	if _, err := cs.Telemetry.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if _, err := cs.Telemetry.Metadata(context.Background()); err == nil {
		t.Fatal("expected error from 502")
	}

	if len(events) != 2 {
		t.Fatalf("observed %d events, want 2", len(events))
	}
	if events[0].API != "telemetry" || events[0].Status != 200 || events[0].Error != "" {
		t.Errorf("success event = %+v", events[0])
	}
	if events[1].Status != 502 || events[1].Error == "" {
		t.Errorf("failure event = %+v", events[1])
	}
}

func TestSetChargeLimitBody(t *testing.T) {
	var gotBody []byte
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"result":true}`))
	}))
	defer server.Close()

	cs := NewClientSet(testUpstreamConfig(server.URL), nil)
	defer cs.Close()

	if _, err := cs.Tessie.SetChargeLimit(context.Background(), "VIN123", 80); err != nil {
		t.Fatalf("SetChargeLimit failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/VIN123/command/set_charge_limit" {
		t.Errorf("path = %q", gotPath)
	}
	if strings.TrimSpace(string(gotBody)) != `{"percent":80}` {
		t.Errorf("body = %s, want {\"percent\":80}", gotBody)
	}
}

func TestServerSidePollingVerbs(t *testing.T) {
	enabled := true
	disabled := false

	tests := []struct {
		name       string
		enabled    *bool
		wantMethod string
	}{
		{"read", nil, http.MethodGet},
		{"enable", &enabled, http.MethodPost},
		{"disable", &disabled, http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			cs := NewClientSet(testUpstreamConfig(server.URL), nil)
			defer cs.Close()

			if _, err := cs.Telemetry.ServerSidePolling(context.Background(), "VIN123", tt.enabled); err != nil {
				t.Fatalf("ServerSidePolling failed: %v", err)
			}
			if gotMethod != tt.wantMethod {
				t.Errorf("method = %s, want %s", gotMethod, tt.wantMethod)
			}
			if gotPath != "/vehicles/VIN123/polling" {
				t.Errorf("path = %q", gotPath)
			}
		})
	}
}

func TestFleetRegionSelection(t *testing.T) {
	tests := []struct {
		region string
		want   string
	}{
		{"na", "https://fleet-api.prd.na.vn.cloud.tesla.com"},
		{"eu", "https://fleet-api.prd.eu.vn.cloud.tesla.com"},
		{"cn", "https://fleet-api.prd.cn.vn.cloud.tesla.cn"},
		{"mars", "https://fleet-api.prd.na.vn.cloud.tesla.com"},
		{"", "https://fleet-api.prd.na.vn.cloud.tesla.com"},
	}

	for _, tt := range tests {
		t.Run("region "+tt.region, func(t *testing.T) {
			if got := fleetBaseURL(tt.region); got != tt.want {
				t.Errorf("fleetBaseURL(%q) = %q, want %q", tt.region, got, tt.want)
			}
		})
	}
}

func TestUnconfiguredFamiliesAreNil(t *testing.T) {
	cfg := testUpstreamConfig("http://localhost:0")
	cfg.Telemetry.APIKey = ""
	cfg.Fleet.APIKey = ""

	cs := NewClientSet(cfg, nil)
	defer cs.Close()

	if cs.Tessie == nil {
		t.Error("Tessie client should be configured")
	}
	if cs.Telemetry != nil {
		t.Error("Telemetry client should be nil without a key")
	}
	if cs.Fleet != nil {
		t.Error("Fleet client should be nil without a key")
	}
}

func TestFakeModeIsDeterministicAndOffline(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	cfg := testUpstreamConfig(server.URL)
	cfg.Tessie.APIKey = cfg.FakeAPIKey

	cs := NewClientSet(cfg, nil)
	defer cs.Close()

	first, err := cs.Tessie.ListVehicles(context.Background(), true)
	if err != nil {
		t.Fatalf("ListVehicles failed: %v", err)
	}
	second, err := cs.Tessie.ListVehicles(context.Background(), true)
	if err != nil {
		t.Fatalf("ListVehicles failed: %v", err)
	}

	if calls != 0 {
		t.Errorf("fake mode performed %d upstream calls, want 0", calls)
	}
	if string(first) != string(second) {
		t.Errorf("fake responses differ:\n%s\n%s", first, second)
	}

	var doc struct {
		Count   int `json:"count"`
		Results []struct {
			VIN string `json:"vin"`
		} `json:"results"`
	}
	if err := json.Unmarshal(first, &doc); err != nil {
		t.Fatalf("fake response is not valid JSON: %v", err)
	}
	if doc.Count != 1 || len(doc.Results) != 1 {
		t.Errorf("unexpected fake vehicles document: %s", first)
	}
}
