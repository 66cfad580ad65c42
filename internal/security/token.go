package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid device token")

// DeviceClaims are the JWT claims carried by a device API token.
// Devices are the kid-facing tablets; tokens let them sync progress
// without holding the parent's session.
type DeviceClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies device API tokens
type TokenIssuer struct {
	key []byte
	ttl time.Duration
}

// NewTokenIssuer creates a token issuer with the given HMAC key and
// token lifetime
func NewTokenIssuer(key string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(key), ttl: ttl}
}

// Issue signs a new device token for the given parent account
func (ti *TokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := DeviceClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "spellmaster",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign device token: %w", err)
	}
	return signed, nil
}

// Verify parses a device token and returns its claims
func (ti *TokenIssuer) Verify(raw string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &DeviceClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*DeviceClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
