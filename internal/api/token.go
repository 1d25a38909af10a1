package api

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenExpiry reads the exp claim of a bearer token without verifying its
// signature. ok is false for opaque tokens and tokens without exp.
func TokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.ExpiresAt, 0), true
}
