package upstream

import (
	"context"
	"encoding/json"
	"net/http"

	"fleetgate-hq/fleetgate/pkg/config"
)

// TeslemetryClient wraps the Teslemetry API: account metadata, credential
// probes and server-side polling control.
type TeslemetryClient struct {
	client
}

func newTeslemetryClient(cfg *config.UpstreamConfig, httpClient *http.Client, observer CallObserver) *TeslemetryClient {
	base := cfg.Telemetry.BaseURL
	if base == "" {
		base = teslemetryBaseURL
	}
	return &TeslemetryClient{
		client: client{
			family:   FamilyTelemetry,
			baseURL:  base,
			token:    cfg.Telemetry.APIKey,
			http:     httpClient,
			observer: observer,
		},
	}
}

// Ping is the Teslemetry liveness endpoint.
func (c *TeslemetryClient) Ping(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "ping", nil, nil)
}

// Test validates the configured credential.
func (c *TeslemetryClient) Test(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "test", nil, nil)
}

// Metadata returns account metadata and granted scopes.
func (c *TeslemetryClient) Metadata(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "metadata", nil, nil)
}

// Scopes returns the available permission scopes.
func (c *TeslemetryClient) Scopes(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "scopes", nil, nil)
}

// ServerSidePolling reads or changes server-side polling for a vehicle.
// A nil enabled reads the current setting; true enables, false disables.
func (c *TeslemetryClient) ServerSidePolling(ctx context.Context, vin string, enabled *bool) (json.RawMessage, error) {
	endpoint := "vehicles/" + vin + "/polling"
	switch {
	case enabled == nil:
		return c.request(ctx, http.MethodGet, endpoint, nil, nil)
	case *enabled:
		return c.request(ctx, http.MethodPost, endpoint, nil, nil)
	default:
		return c.request(ctx, http.MethodDelete, endpoint, nil, nil)
	}
}

// VehicleDataRefresh forces a refresh of the vehicle's cached data.
func (c *TeslemetryClient) VehicleDataRefresh(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "vehicles/"+vin+"/refresh", nil, nil)
}
