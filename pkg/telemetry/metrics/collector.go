package metrics

import (
	"context"
	"strconv"
	"time"

	"fleetgate-hq/fleetgate/pkg/config"
	"fleetgate-hq/fleetgate/pkg/upstream"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and the gateway's metric families:
// inbound HTTP traffic and outbound upstream calls.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewCollector creates the collector and registers the metric families. A nil
// registry allocates a private one, which keeps tests isolated from the
// process-global default registry.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}
	subsystem := cfg.Subsystem

	c := &Collector{
		config:   cfg,
		registry: registry,

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by method, route family and status code.",
		}, []string{"method", "family", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request latency.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "family"}),

		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_calls_total",
			Help:      "Outbound upstream API calls by family and status code.",
		}, []string{"api", "status"}),

		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_call_duration_seconds",
			Help:      "Outbound upstream API call latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"api"}),
	}

	registry.MustRegister(c.httpRequests, c.httpDuration, c.upstreamCalls, c.upstreamDuration)

	return c
}

// RecordHTTPRequest records one served inbound request.
func (c *Collector) RecordHTTPRequest(method, family string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.httpRequests.WithLabelValues(method, family, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, family).Observe(duration.Seconds())
}

// Observer adapts the collector to the upstream call-event channel. Transport
// failures carry status code 0 and are labeled "transport_error".
func (c *Collector) Observer() upstream.CallObserver {
	return func(_ context.Context, event upstream.CallEvent) {
		if !c.config.Enabled {
			return
		}
		status := "transport_error"
		if event.Status != 0 {
			status = strconv.Itoa(event.Status)
		}
		c.upstreamCalls.WithLabelValues(event.API, status).Inc()
		c.upstreamDuration.WithLabelValues(event.API).Observe(event.Duration.Seconds())
	}
}
