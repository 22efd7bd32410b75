package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// tessieRoutes is the Tessie family dispatch table. The literal "vehicles"
// match comes first; the command routes require POST so a bare "<vin>"
// descriptor can never satisfy a command predicate.
var tessieRoutes = []route{
	{
		name:  "list_vehicles",
		match: exact("vehicles"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			onlyActive := strings.EqualFold(c.params.QueryDefault("only_active", "true"), "true")
			return c.clients.Tessie.ListVehicles(ctx, onlyActive)
		},
	},
	{
		name:  "state",
		match: suffix("/state"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.State(ctx, c.vin())
		},
	},
	{
		name:  "battery_health",
		match: suffix("/battery_health"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.BatteryHealth(ctx, c.vin(),
				c.params.Query.Get("start"),
				c.params.Query.Get("end"),
				c.params.Query.Get("distance_format"))
		},
	},
	{
		name:  "battery",
		match: suffix("/battery"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.Battery(ctx, c.vin())
		},
	},
	{
		name:   "wake",
		method: http.MethodPost,
		match:  suffix("/wake"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.Wake(ctx, c.vin())
		},
	},
	{
		name:   "start_charging",
		method: http.MethodPost,
		match:  contains("/command/start_charging"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.StartCharging(ctx, c.vin())
		},
	},
	{
		name:   "stop_charging",
		method: http.MethodPost,
		match:  contains("/command/stop_charging"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.StopCharging(ctx, c.vin())
		},
	},
	{
		name:   "set_charge_limit",
		method: http.MethodPost,
		match:  contains("/command/set_charge_limit"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			percent, present, err := c.params.BodyInt("percent")
			if err != nil {
				return nil, err
			}
			if !present {
				return nil, badRequest("Missing 'percent' parameter")
			}
			return c.clients.Tessie.SetChargeLimit(ctx, c.vin(), percent)
		},
	},
	{
		name:   "lock",
		method: http.MethodPost,
		match:  contains("/command/lock"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.Lock(ctx, c.vin())
		},
	},
	{
		name:   "unlock",
		method: http.MethodPost,
		match:  contains("/command/unlock"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.Unlock(ctx, c.vin())
		},
	},
	{
		name:   "flash_lights",
		method: http.MethodPost,
		match:  contains("/command/flash_lights"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.FlashLights(ctx, c.vin())
		},
	},
	{
		name:   "honk",
		method: http.MethodPost,
		match:  contains("/command/honk"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.Honk(ctx, c.vin())
		},
	},
	{
		name:   "start_climate",
		method: http.MethodPost,
		match:  contains("/command/start_climate"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.StartClimate(ctx, c.vin())
		},
	},
	{
		name:   "stop_climate",
		method: http.MethodPost,
		match:  contains("/command/stop_climate"),
		handle: func(ctx context.Context, c *call) (json.RawMessage, error) {
			return c.clients.Tessie.StopClimate(ctx, c.vin())
		},
	},
}
