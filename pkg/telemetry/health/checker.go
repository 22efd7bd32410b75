package health

import (
	"context"
	"sync"
	"time"

	"fleetgate-hq/fleetgate/pkg/upstream"
)

// DefaultProbeTimeout bounds each per-family probe call.
const DefaultProbeTimeout = 10 * time.Second

// notConfiguredMessage is reported for families without a credential.
const notConfiguredMessage = "API token not configured"

// FamilyResult is the probe outcome for one API family.
type FamilyResult struct {
	// Status is the classified outcome of the probe.
	Status Status `json:"status"`

	// ResponseTimeMS is the probe round-trip time in milliseconds. Zero
	// when the family was not probed.
	ResponseTimeMS float64 `json:"response_time_ms,omitempty"`

	// Error describes the failure, or why the family was skipped.
	Error string `json:"error,omitempty"`
}

// Report is the aggregate health document served at /health.
type Report struct {
	// Status is the worst status among the configured families.
	Status Status `json:"status"`

	// Timestamp is when the fan-out completed.
	Timestamp time.Time `json:"timestamp"`

	// APIs holds the per-family results keyed by family name.
	APIs map[string]FamilyResult `json:"apis"`
}

// CredentialResult reports whether one family's upstream credential works.
type CredentialResult struct {
	Configured bool   `json:"configured"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}

// AuthReport is the per-family credential probe document.
type AuthReport struct {
	Timestamp time.Time                   `json:"timestamp"`
	APIs      map[string]CredentialResult `json:"apis"`
}

// Checker fans probe calls out to the three API families and reduces the
// results to an aggregate status.
type Checker struct {
	probeTimeout time.Duration
}

// New creates a checker. A zero timeout selects DefaultProbeTimeout.
func New(probeTimeout time.Duration) *Checker {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Checker{probeTimeout: probeTimeout}
}

// probe is one family's health call. Families without a credential have a nil
// run func and are reported as unknown without being called.
type probe struct {
	family string
	run    func(ctx context.Context) error
}

// probes builds the per-family probe list from the client set. The probe
// endpoints are the cheapest read each family offers.
func (c *Checker) probes(clients *upstream.ClientSet) []probe {
	list := []probe{
		{family: string(upstream.FamilyTessie)},
		{family: string(upstream.FamilyTelemetry)},
		{family: string(upstream.FamilyFleet)},
	}

	if clients.Tessie != nil {
		list[0].run = func(ctx context.Context) error {
			_, err := clients.Tessie.ListVehicles(ctx, true)
			return err
		}
	}
	if clients.Telemetry != nil {
		list[1].run = func(ctx context.Context) error {
			_, err := clients.Telemetry.Ping(ctx)
			return err
		}
	}
	if clients.Fleet != nil {
		list[2].run = func(ctx context.Context) error {
			_, err := clients.Fleet.ListVehicles(ctx)
			return err
		}
	}
	return list
}

// CheckAll probes every configured family concurrently and aggregates the
// results. A failing probe never cancels or blocks the others; each family's
// outcome is captured independently and the three are joined before the
// reduction.
func (c *Checker) CheckAll(ctx context.Context, clients *upstream.ClientSet) Report {
	results := make(map[string]FamilyResult)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range c.probes(clients) {
		if p.run == nil {
			results[p.family] = FamilyResult{
				Status: StatusUnknown,
				Error:  notConfiguredMessage,
			}
			continue
		}

		wg.Add(1)
		go func(p probe) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
			defer cancel()

			start := time.Now()
			err := p.run(probeCtx)
			elapsed := time.Since(start)

			result := FamilyResult{
				Status:         Classify(err),
				ResponseTimeMS: float64(elapsed.Microseconds()) / 1000.0,
			}
			if err != nil {
				result.Error = err.Error()
			}

			mu.Lock()
			results[p.family] = result
			mu.Unlock()
		}(p)
	}

	wg.Wait()

	statuses := make([]Status, 0, len(results))
	for _, r := range results {
		if r.Status != StatusUnknown {
			statuses = append(statuses, r.Status)
		}
	}

	return Report{
		Status:    Worst(statuses...),
		Timestamp: time.Now().UTC(),
		APIs:      results,
	}
}

// CheckAuth verifies each configured family's upstream credential by issuing
// an authenticated call and reporting whether it was accepted. The telemetry
// family uses its dedicated credential-test endpoint.
func (c *Checker) CheckAuth(ctx context.Context, clients *upstream.ClientSet) AuthReport {
	probes := c.probes(clients)
	if clients.Telemetry != nil {
		probes[1].run = func(ctx context.Context) error {
			_, err := clients.Telemetry.Test(ctx)
			return err
		}
	}

	results := make(map[string]CredentialResult)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range probes {
		if p.run == nil {
			results[p.family] = CredentialResult{Error: notConfiguredMessage}
			continue
		}

		wg.Add(1)
		go func(p probe) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
			defer cancel()

			err := p.run(probeCtx)

			result := CredentialResult{Configured: true, Valid: err == nil}
			if err != nil {
				result.Error = err.Error()
			}

			mu.Lock()
			results[p.family] = result
			mu.Unlock()
		}(p)
	}

	wg.Wait()

	return AuthReport{
		Timestamp: time.Now().UTC(),
		APIs:      results,
	}
}
