// Package auth implements the bearer-token gate in front of the proxied
// routes, plus token minting for the CLI.
//
// Callers authenticate with an HMAC-SHA256 JWT presented as
// "Authorization: Bearer <token>". This credential is distinct from the
// per-family upstream API tokens, which the gateway injects on outbound
// calls. Verification is pure: it never consults an upstream.
//
// The failure taxonomy is deliberate: a missing or malformed header is the
// caller's fault (401), a missing server-side secret is a deployment fault
// (500), and a well-formed token that fails verification is a rejected
// caller (403).
package auth
