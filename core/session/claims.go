package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// tokenExpired peeks at the token's exp claim without verifying the
// signature; verification is the backend's job. Tokens that cannot be
// parsed at all are treated as expired so rehydration drops them.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(nowFunc())
}
