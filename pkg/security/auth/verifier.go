package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified caller claims extracted from a bearer token.
type Claims struct {
	// Subject is the "sub" claim.
	Subject string

	// Extra holds all claims as decoded, including registered ones.
	Extra map[string]any
}

// Verification failures, distinguished so the gateway can map them to the
// right HTTP status: missing/malformed header → 401, missing secret → 500,
// failed cryptographic verification → 403.
var (
	// ErrMissingCredential means the Authorization header was absent, did
	// not carry the Bearer scheme, or carried an empty token.
	ErrMissingCredential = errors.New("missing or invalid Authorization header")

	// ErrNoSecret means no verification secret is configured server-side.
	// This is a deployment error, not a caller error.
	ErrNoSecret = errors.New("JWT secret is not configured")

	// ErrInvalidToken means the token failed cryptographic verification:
	// bad signature, expired, or structurally malformed.
	ErrInvalidToken = errors.New("invalid token")
)

// ExtractBearerToken pulls the token out of an Authorization header value.
// It returns ErrMissingCredential when the header is empty, uses a different
// scheme, or the token portion is blank after trimming.
func ExtractBearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingCredential
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

// Verify validates tokenString against secret under HMAC-SHA256 and returns
// the claims. Secret emptiness is checked first so a misconfigured deployment
// reports ErrNoSecret rather than rejecting every caller as forbidden.
func Verify(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, _ := claims["sub"].(string)
	return &Claims{
		Subject: subject,
		Extra:   map[string]any(claims),
	}, nil
}

// Authorize runs the full gate for one request: extract the bearer token from
// the Authorization header value and verify it against the configured secret.
func Authorize(authorizationHeader, secret string) (*Claims, error) {
	token, err := ExtractBearerToken(authorizationHeader)
	if err != nil {
		return nil, err
	}
	return Verify(token, secret)
}
