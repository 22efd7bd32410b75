package health

import (
	"errors"

	"fleetgate-hq/fleetgate/pkg/upstream"
)

// Status is the health classification of one API family or of the gateway as
// a whole. The values form a total order from least to most severe, so the
// aggregate over several families is a plain maximum.
type Status int

const (
	// StatusUnknown means the family has no configured credential and was
	// not probed. Unknown families never affect the aggregate unless every
	// family is unknown.
	StatusUnknown Status = iota

	// StatusHealthy means the probe succeeded.
	StatusHealthy

	// StatusDegraded means the upstream answered with a client-level error
	// (HTTP status below 500). The API is reachable but rejecting us.
	StatusDegraded

	// StatusUnhealthy means the upstream answered with a server error or
	// the probe failed at the transport level.
	StatusUnhealthy
)

var statusNames = map[Status]string{
	StatusUnknown:   "unknown",
	StatusHealthy:   "healthy",
	StatusDegraded:  "degraded",
	StatusUnhealthy: "unhealthy",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON renders the status as its lowercase name.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Worst reduces a set of statuses to the most severe one. An empty set
// reduces to StatusUnknown.
func Worst(statuses ...Status) Status {
	worst := StatusUnknown
	for _, s := range statuses {
		if s > worst {
			worst = s
		}
	}
	return worst
}

// Classify maps a probe outcome to a status. Upstream errors carrying an HTTP
// status below 500 rank as degraded; server errors and transport failures
// rank as unhealthy.
func Classify(err error) Status {
	if err == nil {
		return StatusHealthy
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 100 && apiErr.StatusCode < 500 {
		return StatusDegraded
	}
	return StatusUnhealthy
}
