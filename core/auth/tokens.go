package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/irsalhamdi/course-market/core/claims"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens signed with a key injected
// at startup.
type Tokens struct {
	key []byte
	ttl time.Duration
}

func NewTokens(key string, ttl time.Duration) (*Tokens, error) {
	if len(key) < 32 {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	return &Tokens{key: []byte(key), ttl: ttl}, nil
}

func (t *Tokens) Sign(clm claims.Claims, now time.Time) (string, error) {
	tc := tokenClaims{
		Role: clm.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clm.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(token string) (claims.Claims, error) {
	var tc tokenClaims
	keyFunc := func(*jwt.Token) (any, error) { return t.key, nil }

	if _, err := jwt.ParseWithClaims(token, &tc, keyFunc, jwt.WithValidMethods([]string{"HS256"})); err != nil {
		return claims.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if tc.Subject == "" {
		return claims.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Claims{UserID: tc.Subject, Role: tc.Role}, nil
}
