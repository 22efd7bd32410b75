// Package gateway routes inbound API requests to the three upstream vehicle
// API families and normalizes every outcome to JSON.
//
// A request makes a single pass: resolve the owning family by path prefix,
// refuse with 503 if the family has no credential, parse query and body
// parameters, match the endpoint descriptor against the family's ordered
// dispatch table and invoke exactly one upstream operation. Success passes
// the upstream JSON through unmodified with a 200; every failure becomes
// {"error": message} with the taxonomy's status. Each request owns its
// client set and releases it on every return path, the panic path included.
//
// Dispatch tables mix exact matches ("vehicles", "ping") with suffix and
// substring predicates evaluated in declared order, so specific literal
// routes are declared before generic shape-based ones.
package gateway
