package upstream

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"
)

// defaultFakeVIN is the VIN reported by canned responses when TESLA_VIN is
// not set in the environment.
const defaultFakeVIN = "TESTVIN1234567890"

func fakeVIN() string {
	if vin := os.Getenv("TESLA_VIN"); vin != "" {
		return vin
	}
	return defaultFakeVIN
}

// fakeResponse returns a deterministic canned response for a Tessie endpoint.
// Endpoints without bespoke canned data get a generic simulated document so
// every operation stays exercisable offline.
func fakeResponse(endpoint string, query url.Values) json.RawMessage {
	endpoint = strings.TrimLeft(endpoint, "/")
	vin := fakeVIN()

	if endpoint == "vehicles" {
		doc := map[string]any{
			"count": 1,
			"results": []map[string]any{
				{
					"vin":          vin,
					"state":        "online",
					"display_name": "Simulated Tessie",
					"id":           vin + "-simulated",
				},
			},
		}
		return mustMarshal(doc)
	}

	if strings.HasSuffix(endpoint, "/state") {
		return mustMarshal(map[string]any{"vin": vin, "state": "online"})
	}

	params := map[string]any{}
	for key, values := range query {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}
	return mustMarshal(map[string]any{
		"path":   "/" + endpoint,
		"params": params,
		"status": "simulated",
	})
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// The canned documents are static maps; marshal cannot fail.
		panic(err)
	}
	return data
}
