package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"fleetgate-hq/fleetgate/pkg/config"
)

// fleetRegionURLs maps region codes to Fleet API base URLs. Unrecognized
// codes fall back to "na".
var fleetRegionURLs = map[string]string{
	"na": "https://fleet-api.prd.na.vn.cloud.tesla.com",
	"eu": "https://fleet-api.prd.eu.vn.cloud.tesla.com",
	"cn": "https://fleet-api.prd.cn.vn.cloud.tesla.cn",
}

// fleetBaseURL resolves the base URL for a region code.
func fleetBaseURL(region string) string {
	if u, ok := fleetRegionURLs[region]; ok {
		return u
	}
	return fleetRegionURLs["na"]
}

// FleetClient wraps the official Tesla Fleet API. The base URL is selected by
// the configured region code.
type FleetClient struct {
	client

	// Region is the resolved region code this client talks to.
	Region string
}

func newFleetClient(cfg *config.UpstreamConfig, httpClient *http.Client, observer CallObserver) *FleetClient {
	region := cfg.Fleet.Region
	if _, ok := fleetRegionURLs[region]; !ok {
		region = "na"
	}

	base := cfg.Fleet.BaseURL
	if base == "" {
		base = fleetBaseURL(region)
	}

	return &FleetClient{
		client: client{
			family:   FamilyFleet,
			baseURL:  base,
			token:    cfg.Fleet.APIKey,
			http:     httpClient,
			observer: observer,
		},
		Region: region,
	}
}

// ListVehicles lists the vehicles in the fleet.
func (c *FleetClient) ListVehicles(ctx context.Context) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "api/1/vehicles", nil, nil)
}

// VehicleData returns vehicle data. When endpoints is non-empty it is passed
// through as the comma-separated endpoints filter.
func (c *FleetClient) VehicleData(ctx context.Context, vin, endpoints string) (json.RawMessage, error) {
	var query url.Values
	if endpoints != "" {
		query = url.Values{"endpoints": {endpoints}}
	}
	return c.request(ctx, http.MethodGet, "api/1/vehicles/"+vin+"/vehicle_data", query, nil)
}

// WakeUp wakes the vehicle.
func (c *FleetClient) WakeUp(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "api/1/vehicles/"+vin+"/wake_up", nil, nil)
}

// Command executes a named vehicle command with an optional JSON parameter
// object (e.g. "charge_start", "set_temps").
func (c *FleetClient) Command(ctx context.Context, vin, command string, params map[string]any) (json.RawMessage, error) {
	var body any
	if params != nil {
		body = params
	}
	return c.request(ctx, http.MethodPost, "api/1/vehicles/"+vin+"/command/"+command, nil, body)
}
