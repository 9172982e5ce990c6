package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the server puts into its tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the token payload without verifying the signature.
// The console has no key to verify with; the result is for display only and
// never used to decide access.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim, if it has one.
func ExpiresAt(token string) (time.Time, bool) {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
