package calllog

import (
	"time"

	"github.com/google/uuid"

	"fleetgate-hq/fleetgate/pkg/upstream"
)

// Record is one logged upstream call. It carries call metadata only; proxied
// payload bodies are never stored.
type Record struct {
	// ID is a generated UUID.
	ID string `json:"id"`

	// CalledAt is when the call completed.
	CalledAt time.Time `json:"called_at"`

	// API is the family name: "tessie", "telemetry" or "fleet".
	API string `json:"api"`

	// Endpoint is the upstream-relative endpoint.
	Endpoint string `json:"endpoint"`

	// Status is the upstream HTTP status, 0 for transport failures.
	Status int `json:"status"`

	// DurationMS is the call round-trip time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// newRecord builds a Record from a call event.
func newRecord(event upstream.CallEvent) *Record {
	return &Record{
		ID:         uuid.NewString(),
		CalledAt:   time.Now().UTC(),
		API:        event.API,
		Endpoint:   event.Endpoint,
		Status:     event.Status,
		DurationMS: event.Duration.Milliseconds(),
		Error:      event.Error,
	}
}
