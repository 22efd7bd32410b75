package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"fleetgate-hq/fleetgate/pkg/config"
)

// TessieClient wraps the Tessie vehicle-REST API: vehicle listing, state and
// battery queries, and the command endpoints.
type TessieClient struct {
	client

	// fake, when true, answers every call from the deterministic canned
	// response table without touching the network.
	fake bool
}

func newTessieClient(cfg *config.UpstreamConfig, httpClient *http.Client, observer CallObserver) *TessieClient {
	base := cfg.Tessie.BaseURL
	if base == "" {
		base = tessieBaseURL
	}
	return &TessieClient{
		client: client{
			family:   FamilyTessie,
			baseURL:  base,
			token:    cfg.Tessie.APIKey,
			http:     httpClient,
			observer: observer,
		},
		fake: cfg.FakeMode || cfg.Tessie.APIKey == cfg.FakeAPIKey,
	}
}

// get performs a GET, consulting the fake response table first.
func (c *TessieClient) get(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	if c.fake {
		return fakeResponse(endpoint, query), nil
	}
	return c.request(ctx, http.MethodGet, endpoint, query, nil)
}

// post performs a POST, consulting the fake response table first.
func (c *TessieClient) post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	if c.fake {
		return fakeResponse(endpoint, nil), nil
	}
	return c.request(ctx, http.MethodPost, endpoint, nil, body)
}

// ListVehicles lists the account's vehicles.
func (c *TessieClient) ListVehicles(ctx context.Context, onlyActive bool) (json.RawMessage, error) {
	query := url.Values{"only_active": {strconv.FormatBool(onlyActive)}}
	return c.get(ctx, "vehicles", query)
}

// State returns the full state document for a vehicle.
func (c *TessieClient) State(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.get(ctx, vin+"/state", nil)
}

// Battery returns current battery information for a vehicle.
func (c *TessieClient) Battery(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.get(ctx, vin+"/battery", nil)
}

// BatteryHealth returns battery health history. Start and end bound the
// window when non-empty; distanceFormat is "mi" or "km".
func (c *TessieClient) BatteryHealth(ctx context.Context, vin, start, end, distanceFormat string) (json.RawMessage, error) {
	if distanceFormat == "" {
		distanceFormat = "mi"
	}
	query := url.Values{"distance_format": {distanceFormat}}
	if start != "" {
		query.Set("start", start)
	}
	if end != "" {
		query.Set("end", end)
	}
	return c.get(ctx, vin+"/battery_health", query)
}

// Wake wakes the vehicle from sleep.
func (c *TessieClient) Wake(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/wake", nil)
}

// StartCharging starts charging.
func (c *TessieClient) StartCharging(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/start_charging", nil)
}

// StopCharging stops charging.
func (c *TessieClient) StopCharging(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/stop_charging", nil)
}

// SetChargeLimit sets the charge limit percentage.
func (c *TessieClient) SetChargeLimit(ctx context.Context, vin string, percent int) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/set_charge_limit", map[string]int{"percent": percent})
}

// Lock locks the vehicle.
func (c *TessieClient) Lock(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/lock", nil)
}

// Unlock unlocks the vehicle.
func (c *TessieClient) Unlock(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/unlock", nil)
}

// FlashLights flashes the exterior lights.
func (c *TessieClient) FlashLights(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/flash_lights", nil)
}

// Honk honks the horn.
func (c *TessieClient) Honk(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/honk", nil)
}

// StartClimate starts climate preconditioning.
func (c *TessieClient) StartClimate(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/start_climate", nil)
}

// StopClimate stops climate preconditioning.
func (c *TessieClient) StopClimate(ctx context.Context, vin string) (json.RawMessage, error) {
	return c.post(ctx, vin+"/command/stop_climate", nil)
}
