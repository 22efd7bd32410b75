// Package metrics exposes Prometheus metrics for the gateway: inbound HTTP
// request counts and latencies, and outbound upstream call counts and
// latencies per API family. The collector plugs into the upstream client
// layer through its call observer.
package metrics
