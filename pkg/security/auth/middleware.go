package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const claimsKey contextKey = "auth_claims"

// SecretSource supplies the current verification secret. It is consulted per
// request so a config reload takes effect without restarting the server.
type SecretSource func() string

// Middleware returns HTTP middleware enforcing the bearer-token gate. The
// gate runs before any routing or upstream work:
//
//	401 missing/malformed Authorization header or empty token
//	500 no secret configured server-side
//	403 token failed cryptographic verification
//
// On success the verified claims are stored in the request context.
func Middleware(secret SecretSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := Authorize(r.Header.Get("Authorization"), secret())
			if err != nil {
				status, message := classify(err)
				slog.WarnContext(r.Context(), "request rejected by auth gate",
					"status", status,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, status, message)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// classify maps a verification failure to its HTTP status and caller message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return http.StatusUnauthorized, "Missing or invalid Authorization header"
	case errors.Is(err, ErrNoSecret):
		return http.StatusInternalServerError, "JWT secret is not configured"
	default:
		return http.StatusForbidden, "Invalid token"
	}
}

// writeAuthError writes the gateway's uniform JSON error body.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ClaimsFromContext retrieves verified claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
