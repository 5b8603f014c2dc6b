package utils

import (
	"errors"  // Error values
	"strconv" // User id claim formatting
	"time"    // Cookie expiry

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidCookie is returned for cookies that fail signature or shape checks
var ErrInvalidCookie = errors.New("invalid session cookie")

// SessionCookie is what the signed cookie carries
type SessionCookie struct {
	SessionToken string    // Opaque session token, looked up in the store
	UserID       int64     // Owner at issue time, informational only
	ExpiresAt    time.Time // Session expiry at issue time
}

// SignSessionCookie wraps a session token in an HS256 token so the client
// cannot forge or alter it. The store stays the authority on expiry.
func SignSessionCookie(c SessionCookie, secret string) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        c.SessionToken,                  // Session token travels as the jti
		Subject:   strconv.FormatInt(c.UserID, 10), // Owner
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt), // Mirrors the session row
		IssuedAt:  jwt.NewNumericDate(time.Now()),  // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseSessionCookie verifies the signature and returns the carried session.
// Time based claims are not validated here: an expired cookie must still
// resolve to its session row so "remove all sessions" can find the owner.
func ParseSessionCookie(raw, secret string) (SessionCookie, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return SessionCookie{}, ErrInvalidCookie
	}
	if claims.ID == "" {
		return SessionCookie{}, ErrInvalidCookie
	}
	out := SessionCookie{SessionToken: claims.ID}
	if uid, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil {
		out.UserID = uid
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
