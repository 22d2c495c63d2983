package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "agenda-backend"

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims names an in-memory session. The token carries no expiry: it is only
// honoured while the server still holds the session it names.
type SessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// SessionSigner signs and verifies session tokens with an HMAC key.
type SessionSigner struct {
	key []byte
}

// NewSessionSigner uses secret as the signing key. An empty secret produces a random
// per-process key, so tokens do not survive a restart.
func NewSessionSigner(secret string) (*SessionSigner, error) {
	if secret != "" {
		return &SessionSigner{key: []byte(secret)}, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	return &SessionSigner{key: key}, nil
}

// Sign creates a token for the session id and display name.
func (s *SessionSigner) Sign(sessionID, name string) (string, error) {
	claims := &SessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       sessionID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   sessionIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims.
func (s *SessionSigner) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
