// Package auth implements the magic-link login flow and JWT sessions.
// The protocol is deliberately simple: a random single-use token mailed
// (or logged, in development) to the user, exchanged once for a 7-day JWT.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const jwtExpiry = 7 * 24 * time.Hour

// Claims are the JWT session claims.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies magic-link tokens and session JWTs.
type Manager struct {
	secret []byte
	store  TokenStore
	ttl    time.Duration
}

// NewManager creates an auth manager. ttl is the magic-link lifetime.
func NewManager(secret string, store TokenStore, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), store: store, ttl: ttl}
}

// GenerateMagicLink creates a random single-use token bound to the email.
func (m *Manager) GenerateMagicLink(ctx context.Context, email string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	if err := m.store.Put(ctx, token, email, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeMagicLink redeems a token, returning the bound email. A missing
// or expired token returns ok=false.
func (m *Manager) ConsumeMagicLink(ctx context.Context, token string) (string, bool, error) {
	return m.store.Consume(ctx, token)
}

// GenerateJWT signs a 7-day session token for the user.
func (m *Manager) GenerateJWT(userID, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyJWT parses and validates a session token. Invalid or expired
// tokens return nil.
func (m *Manager) VerifyJWT(token string) *Claims {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}

// PurgeExpired drops expired magic-link tokens from the store.
func (m *Manager) PurgeExpired(ctx context.Context) error {
	return m.store.Purge(ctx)
}
