package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Tokens issues and verifies HS256 access tokens. A zero expiry issues tokens
// that never expire.
type Tokens struct {
	secret []byte
	expiry time.Duration
}

func NewTokens(secret string, expiryHours int) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Generate returns a signed token whose subject is the credential id.
func (t *Tokens) Generate(credentialID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  credentialID,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if t.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies tokenStr and returns the credential id it was issued for.
func (t *Tokens) Parse(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidClaims
	}
	return claims.Subject, nil
}
