// Package calllog persists metadata about upstream API calls: family,
// endpoint, status, latency and error. Proxied payload bodies are never
// stored.
//
// Records flow in through the upstream call observer, are buffered on a
// channel and written by a single background worker, so the request path
// never waits on the database. A cron-driven pruner enforces the retention
// window.
package calllog
