// Package utils provides helpers for signing and verifying session tokens.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSessionToken is returned for tokens that fail parsing,
// signature or expiry checks, or that carry no session ID.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is a signed JWT naming a session, along with its expiry.
type SessionToken struct {
	Token     string
	SessionID string
	Exp       time.Time
}

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewSessionToken signs an HS256 JWT for the session, valid for ttl.
func NewSessionToken(secret, sessionID string, ttl time.Duration, now time.Time) (SessionToken, error) {
	exp := now.UTC().Add(ttl)
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now.UTC()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, SessionID: sessionID, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns the session ID it names.
// Only HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid || claims.SessionID == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.SessionID, nil
}
