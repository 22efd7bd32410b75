package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is the default lifetime of minted caller tokens.
const DefaultTokenLifetime = 30 * time.Minute

// DefaultSubject is the subject claim used when none is specified.
const DefaultSubject = "core-tessie-client"

// MintToken produces a signed HS256 bearer token for authenticating with the
// gateway. The token carries sub, iat and exp plus any extra claims; extra
// claims cannot overwrite the registered ones.
func MintToken(secret, subject string, lifetime time.Duration, extraClaims map[string]any) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if subject == "" {
		subject = DefaultSubject
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}

	now := time.Now()
	claims := jwt.MapClaims{}
	for key, value := range extraClaims {
		claims[key] = value
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(lifetime).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
