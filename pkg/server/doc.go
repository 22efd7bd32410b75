// Package server assembles the gateway's HTTP surface: the JWT-gated /api
// routes, the open /health and /status documents, the Prometheus endpoint
// and the static-asset fallback, wrapped in recovery, request-ID, logging
// and metrics middleware.
package server
