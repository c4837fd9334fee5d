package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	tokenStr := signedToken(t, Claims{
		Email: "a@b.com",
		Role:  "player",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := Inspect(tokenStr)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if claims.Email != "a@b.com" || claims.Role != "player" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := Inspect(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRemainingTTL(t *testing.T) {
	withExpiry := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	ttl, ok := RemainingTTL(withExpiry, 0)
	if !ok {
		t.Fatal("expected a TTL for a token with exp")
	}
	if ttl <= 50*time.Minute || ttl > time.Hour {
		t.Fatalf("implausible ttl %v", ttl)
	}

	expired := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if _, ok := RemainingTTL(expired, 0); ok {
		t.Fatal("expired token must not yield a TTL")
	}

	noExpiry := signedToken(t, Claims{Email: "a@b.com"})
	if _, ok := RemainingTTL(noExpiry, 0); ok {
		t.Fatal("token without exp must not yield a TTL")
	}
}
