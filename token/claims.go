package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt peeks at the token's JWT expiry claim without verifying the
// signature. It is advisory only: a session controller can skip a restore
// round-trip for a token that is already dead, but the backend stays the
// sole authority on validity. Opaque or claimless tokens report ok=false
// and must be sent to the backend as-is.
func ExpiresAt(token string) (expiry time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether ExpiresAt yields a time in the past. Tokens
// without a readable expiry are never considered expired locally.
func Expired(token string, now time.Time) bool {
	expiry, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return expiry.Before(now)
}
