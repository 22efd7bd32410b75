package gateway

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fleetgate-hq/fleetgate/pkg/config"
	"fleetgate-hq/fleetgate/pkg/telemetry/health"
	"fleetgate-hq/fleetgate/pkg/upstream"
)

// family binds one API prefix to its dispatch table and configuration check.
type family struct {
	// prefix is the inbound path prefix, without trailing slash.
	prefix string

	// label names the family in 503 responses.
	label string

	// notFoundLabel names the family in unmatched-endpoint 404s.
	notFoundLabel string

	routes     []route
	configured func(cs *upstream.ClientSet) bool
}

// families is ordered for longest-prefix resolution. The three prefixes are
// mutually exclusive, so declared order does not matter here; it does inside
// each dispatch table.
var families = []family{
	{
		prefix:        "/api/tessie",
		label:         "Tessie API",
		notFoundLabel: "Tessie",
		routes:        tessieRoutes,
		configured:    func(cs *upstream.ClientSet) bool { return cs.Tessie != nil },
	},
	{
		prefix:        "/api/telemetry",
		label:         "Teslemetry API",
		notFoundLabel: "Teslemetry",
		routes:        telemetryRoutes,
		configured:    func(cs *upstream.ClientSet) bool { return cs.Telemetry != nil },
	},
	{
		prefix:        "/api/fleet",
		label:         "Tesla Fleet API",
		notFoundLabel: "Fleet",
		routes:        fleetRoutes,
		configured:    func(cs *upstream.ClientSet) bool { return cs.Fleet != nil },
	},
}

// resolveFamily picks the family owning the path by longest-prefix match.
func resolveFamily(path string) *family {
	var best *family
	for i := range families {
		f := &families[i]
		if path == f.prefix || strings.HasPrefix(path, f.prefix+"/") {
			if best == nil || len(f.prefix) > len(best.prefix) {
				best = f
			}
		}
	}
	return best
}

// Gateway dispatches inbound API requests to the upstream client catalogs
// and serves the health and status documents.
type Gateway struct {
	observer upstream.CallObserver
	checker  *health.Checker
}

// New creates a gateway. The observer receives one event per upstream call;
// nil disables call events.
func New(observer upstream.CallObserver) *Gateway {
	return &Gateway{
		observer: observer,
		checker:  health.New(0),
	}
}

// clientSet builds the per-request client set from the current configuration
// snapshot. The caller must Close it on every return path.
func (g *Gateway) clientSet() *upstream.ClientSet {
	cfg := config.Current()
	return upstream.NewClientSet(&cfg.Upstream, g.observer)
}

// APIHandler serves the /api/* surface. Requests reach it after the auth
// gate; everything from here on is routing and upstream dispatch.
func (g *Gateway) APIHandler() http.Handler {
	return http.HandlerFunc(g.serveAPI)
}

func (g *Gateway) serveAPI(w http.ResponseWriter, r *http.Request) {
	// The process must stay available for subsequent requests; an
	// unhandled fault becomes a plain 500.
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(r.Context(), "panic in api handler",
				"panic", rec,
				"path", r.URL.Path,
			)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}()

	fam := resolveFamily(r.URL.Path)
	if fam == nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	clients := g.clientSet()
	defer clients.Close()

	if !fam.configured(clients) {
		err := notConfigured(fam.label)
		writeError(w, err.Status, err.Message)
		return
	}

	params, err := parseParams(r)
	if err != nil {
		status, message := errorStatus(err)
		writeError(w, status, message)
		return
	}

	c := &call{
		method:   r.Method,
		endpoint: pathSuffix(r.URL.Path, fam.prefix),
		params:   params,
		clients:  clients,
	}

	start := time.Now()
	raw, err := dispatch(r.Context(), fam.routes, fam.notFoundLabel, c)
	if err != nil {
		status, message := errorStatus(err)
		slog.WarnContext(r.Context(), "dispatch failed",
			"family", fam.notFoundLabel,
			"endpoint", c.endpoint,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", message,
		)
		writeError(w, status, message)
		return
	}

	writeRaw(w, raw)
}

// HealthHandler serves the aggregate health document.
func (g *Gateway) HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clients := g.clientSet()
		defer clients.Close()

		writeJSON(w, http.StatusOK, g.checker.CheckAll(r.Context(), clients))
	})
}

// statusDocument is the /status response: health plus credential validation
// plus the non-secret parts of the configuration.
type statusDocument struct {
	Health         health.Report     `json:"health"`
	Authentication health.AuthReport `json:"authentication"`
	Configuration  configSummary     `json:"configuration"`
}

type configSummary struct {
	TessieConfigured    bool   `json:"tessie_configured"`
	TelemetryConfigured bool   `json:"telemetry_configured"`
	FleetConfigured     bool   `json:"fleet_configured"`
	FleetRegion         string `json:"fleet_region"`
}

// StatusHandler serves the detailed status document, including per-family
// credential validation.
func (g *Gateway) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clients := g.clientSet()
		defer clients.Close()

		cfg := config.Current()

		writeJSON(w, http.StatusOK, statusDocument{
			Health:         g.checker.CheckAll(r.Context(), clients),
			Authentication: g.checker.CheckAuth(r.Context(), clients),
			Configuration: configSummary{
				TessieConfigured:    cfg.Upstream.Tessie.APIKey != "",
				TelemetryConfigured: cfg.Upstream.Telemetry.APIKey != "",
				FleetConfigured:     cfg.Upstream.Fleet.APIKey != "",
				FleetRegion:         cfg.Upstream.Fleet.Region,
			},
		})
	})
}
