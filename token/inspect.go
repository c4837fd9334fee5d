package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when the token cannot be parsed at all.
var ErrMalformed = errors.New("token: malformed token")

// Claims are the fields this client reads from a backend token. The
// signature is deliberately not checked: the server verifies its own
// tokens, and a forged claim here can at worst mis-size a cache TTL.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Inspect parses the token without signature verification and returns its
// claims. Tokens that are not structurally JWTs fail with ErrMalformed.
func Inspect(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser()

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrMalformed
	}
	return claims, nil
}

// RemainingTTL returns how long the token is still valid, with a small skew
// allowance, or false when the token carries no expiry or parsing failed.
func RemainingTTL(tokenStr string, skew time.Duration) (time.Duration, bool) {
	claims, err := Inspect(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return 0, false
	}

	ttl := time.Until(claims.ExpiresAt.Time) + skew
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}
