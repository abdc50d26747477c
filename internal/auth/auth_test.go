package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicLinkRoundTrip(t *testing.T) {
	m := NewManager("secret", NewMemoryTokenStore(), time.Minute)
	ctx := context.Background()

	token, err := m.GenerateMagicLink(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	email, ok, err := m.ConsumeMagicLink(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", email)
}

func TestMagicLinkIsSingleUse(t *testing.T) {
	m := NewManager("secret", NewMemoryTokenStore(), time.Minute)
	ctx := context.Background()

	token, err := m.GenerateMagicLink(ctx, "jane@example.com")
	require.NoError(t, err)

	_, ok, _ := m.ConsumeMagicLink(ctx, token)
	require.True(t, ok)

	_, ok, err = m.ConsumeMagicLink(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMagicLinkUnknownToken(t *testing.T) {
	m := NewManager("secret", NewMemoryTokenStore(), time.Minute)

	_, ok, err := m.ConsumeMagicLink(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMagicLinkExpiry(t *testing.T) {
	store := NewMemoryTokenStore()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	m := NewManager("secret", store, time.Minute)
	ctx := context.Background()

	token, err := m.GenerateMagicLink(ctx, "jane@example.com")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, ok, err := m.ConsumeMagicLink(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurgeExpiredKeepsLiveTokens(t *testing.T) {
	store := NewMemoryTokenStore()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old", "old@example.com", time.Minute))
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, store.Put(ctx, "fresh", "fresh@example.com", time.Minute))

	require.NoError(t, store.Purge(ctx))

	_, ok, _ := store.Consume(ctx, "old")
	assert.False(t, ok)
	email, ok, _ := store.Consume(ctx, "fresh")
	assert.True(t, ok)
	assert.Equal(t, "fresh@example.com", email)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewManager("secret", NewMemoryTokenStore(), time.Minute)

	token, err := m.GenerateJWT("u-1", "jane@example.com")
	require.NoError(t, err)

	claims := m.VerifyJWT(token)
	require.NotNil(t, claims)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	m := NewManager("secret", NewMemoryTokenStore(), time.Minute)
	other := NewManager("different", NewMemoryTokenStore(), time.Minute)

	token, err := m.GenerateJWT("u-1", "jane@example.com")
	require.NoError(t, err)

	assert.Nil(t, other.VerifyJWT(token))
}

func TestJWTGarbageRejected(t *testing.T) {
	m := NewManager("secret", NewMemoryTokenStore(), time.Minute)
	assert.Nil(t, m.VerifyJWT("not.a.jwt"))
}
