package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// fleetRoutes is the Tesla Fleet family dispatch table.
var fleetRoutes = []route{
	{
		name:  "list_vehicles",
		match: exact("vehicles"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Fleet.ListVehicles(ctx)
		},
	},
	{
		name:  "vehicle_data",
		match: contains("/vehicle_data"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Fleet.VehicleData(ctx, c.vin(), c.params.Query.Get("endpoints"))
		},
	},
	{
		name:   "wake_up",
		method: http.MethodPost,
		match:  contains("/wake_up"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Fleet.WakeUp(ctx, c.vin())
		},
	},
	{
		name:   "command",
		method: http.MethodPost,
		match:  contains("/command/"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			vin, command, ok := strings.Cut(c.endpoint, "/command/")
			if !ok || command == "" {
				return nil, badRequest("Missing command name")
			}
			return c.clients.Fleet.Command(ctx, vin, command, c.params.Body)
		},
	},
}
