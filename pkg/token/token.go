// Package token inspects bearer tokens on the client side.
//
// The client never verifies signatures — it has no key, and the backend is
// the authority. Peek decodes the payload segment only, so the expiry
// watchdog can schedule against the exp claim. A token that cannot be
// decoded yields an error, and callers must treat that as "unknown, not
// expired": a client-side parsing bug must never tear down a session the
// server still accepts.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the payload decodes but carries no exp claim.
var ErrNoExpiry = errors.New("token: no exp claim")

// Claims holds the payload fields the client cares about.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Peek decodes the claims of a compact JWS token without verifying the
// signature.
func Peek(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("token: decode: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the absolute expiry instant of raw.
func ExpiresAt(raw string) (time.Time, error) {
	claims, err := Peek(raw)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
