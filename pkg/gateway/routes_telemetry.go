package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

// telemetryRoutes is the Teslemetry family dispatch table. The four literal
// account endpoints precede the vehicle-scoped shape matches.
var telemetryRoutes = []route{
	{
		name:  "ping",
		match: exact("ping"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Telemetry.Ping(ctx)
		},
	},
	{
		name:  "test",
		match: exact("test"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Telemetry.Test(ctx)
		},
	},
	{
		name:  "metadata",
		match: exact("metadata"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Telemetry.Metadata(ctx)
		},
	},
	{
		name:  "scopes",
		match: exact("scopes"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Telemetry.Scopes(ctx)
		},
	},
	{
		name:  "server_side_polling",
		match: contains("/polling"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			// Descriptor shape is "vehicles/<vin>/polling".
			vin := segment(c.endpoint, 1)
			enabled := c.params.Query.Get("enabled")

			var state *bool
			switch {
			case enabled == "" && c.method == http.MethodGet:
				state = nil
			case enabled == "true" || c.method == http.MethodPost:
				state = boolPtr(true)
			case enabled == "false" || c.method == http.MethodDelete:
				state = boolPtr(false)
			default:
				return nil, badRequest("Invalid polling operation")
			}
			return c.clients.Telemetry.ServerSidePolling(ctx, vin, state)
		},
	},
	{
		name:   "vehicle_data_refresh",
		method: http.MethodPost,
		match:  contains("/refresh"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Telemetry.VehicleDataRefresh(ctx, segment(c.endpoint, 1))
		},
	},
}

func boolPtr(b bool) *bool { return &b }
