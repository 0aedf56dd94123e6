// Package auth checks the caller's Authorization header. Sessions are issued
// elsewhere; this package only consumes them.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for every rejected credential.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier decides whether a raw Authorization header value is acceptable.
type Verifier interface {
	Verify(authorization string) error
}

// Presence accepts any non-empty header. Token validity is left to the
// platform in front of the relay.
type Presence struct{}

func (Presence) Verify(authorization string) error {
	if strings.TrimSpace(authorization) == "" {
		return ErrUnauthorized
	}
	return nil
}

// Claims are the session claims the relay cares about.
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWT verifies HS256-signed bearer tokens.
type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

func (v *JWT) Verify(authorization string) error {
	tokenStr := extractBearerToken(authorization)
	if tokenStr == "" {
		return ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return ErrUnauthorized
	}
	return nil
}

// New returns a JWT verifier when secret is set, otherwise Presence.
func New(secret string) Verifier {
	if secret == "" {
		return Presence{}
	}
	return NewJWT(secret)
}

func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
