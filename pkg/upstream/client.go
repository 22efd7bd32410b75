package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetgate-hq/fleetgate/pkg/config"
)

// Family identifies one of the three proxied API families.
type Family string

const (
	// FamilyTessie is the Tessie vehicle-REST API.
	FamilyTessie Family = "tessie"

	// FamilyTelemetry is the Teslemetry API.
	FamilyTelemetry Family = "telemetry"

	// FamilyFleet is the official Tesla Fleet API.
	FamilyFleet Family = "fleet"
)

// Default base URLs per family. The Fleet API base is region-dependent; see
// fleetBaseURL.
const (
	tessieBaseURL     = "https://api.tessie.com"
	teslemetryBaseURL = "https://api.teslemetry.com"
)

// client is the shared low-level HTTP client embedded by the three family
// wrappers. It binds a base URL, a bearer token and an http.Client whose
// transport is shared across the families of one ClientSet.
type client struct {
	family   Family
	baseURL  string
	token    string
	http     *http.Client
	observer CallObserver
}

// request performs one authenticated upstream call and returns the raw JSON
// body. The call carries a fixed timeout (the http.Client timeout) and is
// never retried. Every call, including failures, emits exactly one CallEvent
// through the observer.
func (c *client) request(ctx context.Context, method, endpoint string, query url.Values, body any) (json.RawMessage, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := &APIError{
			Family:   c.family,
			Endpoint: endpoint,
			Message:  fmt.Sprintf("Request failed: %v", err),
			Cause:    err,
		}
		c.observe(ctx, endpoint, 0, time.Since(start), apiErr.Message)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Family:     c.family,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
		}
		c.observe(ctx, endpoint, resp.StatusCode, duration, apiErr.Message)
		return nil, apiErr
	}

	if readErr != nil {
		apiErr := &APIError{
			Family:   c.family,
			Endpoint: endpoint,
			Message:  fmt.Sprintf("Request failed: %v", readErr),
			Cause:    readErr,
		}
		c.observe(ctx, endpoint, 0, duration, apiErr.Message)
		return nil, apiErr
	}

	c.observe(ctx, endpoint, resp.StatusCode, duration, "")
	return json.RawMessage(respBody), nil
}

func (c *client) observe(ctx context.Context, endpoint string, status int, duration time.Duration, errMsg string) {
	if c.observer == nil {
		return
	}
	c.observer(ctx, CallEvent{
		API:      string(c.family),
		Endpoint: endpoint,
		Status:   status,
		Duration: duration,
		Error:    errMsg,
	})
}

// ClientSet bundles the per-family clients for one inbound request. Families
// without a configured credential have a nil client; the dispatcher turns
// that into a 503 before any call is attempted.
//
// A ClientSet owns its connection pool and must be released with Close on
// every exit path once the response has been produced.
type ClientSet struct {
	Tessie    *TessieClient
	Telemetry *TeslemetryClient
	Fleet     *FleetClient

	transport *http.Transport
}

// NewClientSet constructs the per-request client set from the configuration
// snapshot. The three families share one pooled transport but carry
// independent credentials. A nil observer disables call events.
func NewClientSet(cfg *config.UpstreamConfig, observer CallObserver) *ClientSet {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	cs := &ClientSet{transport: transport}

	if cfg.Tessie.APIKey != "" {
		cs.Tessie = newTessieClient(cfg, httpClient, observer)
	}
	if cfg.Telemetry.APIKey != "" {
		cs.Telemetry = newTeslemetryClient(cfg, httpClient, observer)
	}
	if cfg.Fleet.APIKey != "" {
		cs.Fleet = newFleetClient(cfg, httpClient, observer)
	}

	return cs
}

// Close releases the connection pool. Safe to call multiple times.
func (cs *ClientSet) Close() {
	if cs.transport != nil {
		cs.transport.CloseIdleConnections()
	}
}
