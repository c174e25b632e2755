// Package sessiontest mints access tokens for tests. The client never
// verifies signatures, so a fixed HMAC key is enough.
package sessiontest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("hexsocial-test-key")

// Token signs claims with HS256.
func Token(tb testing.TB, claims jwt.MapClaims) string {
	tb.Helper()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return s
}

// AccessToken returns a token for role expiring after ttl. A negative ttl
// yields an already expired token.
func AccessToken(tb testing.TB, role string, ttl time.Duration) string {
	tb.Helper()

	claims := jwt.MapClaims{
		"sub": "user-1",
		"exp": jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	if role != "" {
		claims["role"] = role
	}
	return Token(tb, claims)
}
