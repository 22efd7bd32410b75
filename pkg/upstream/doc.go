// Package upstream provides typed clients for the three proxied vehicle
// telematics APIs: Tessie (vehicle REST), Teslemetry (telemetry/polling) and
// the official Tesla Fleet API.
//
// All three clients share one low-level request path: an authenticated JSON
// call with a fixed timeout and no retries. Non-2xx responses become an
// *APIError preserving the upstream status code; transport failures become an
// *APIError with StatusCode 0. Every call emits exactly one CallEvent through
// the injected CallObserver, success or failure, so telemetry sinks can be
// swapped without touching dispatch logic.
//
// A ClientSet is constructed per inbound request from the current
// configuration snapshot. The families share one pooled transport but carry
// independent credentials; families without a credential are nil. Callers
// must release the set with Close on every exit path.
package upstream
