package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowRequestWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, true)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest("user:a"), "request %d should pass", i+1)
	}
	assert.False(t, rl.AllowRequest("user:a"))
}

func TestKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, true)

	assert.True(t, rl.AllowRequest("user:a"))
	assert.False(t, rl.AllowRequest("user:a"))
	assert.True(t, rl.AllowRequest("ip:10.0.0.1"))
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)

	for i := 0; i < 100; i++ {
		assert.True(t, rl.AllowRequest("user:a"))
	}
}

func TestWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond, true)

	assert.True(t, rl.AllowRequest("user:a"))
	assert.False(t, rl.AllowRequest("user:a"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.AllowRequest("user:a"))
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, true)

	rl.AllowRequest("user:a")
	rl.AllowRequest("user:a")

	stats := rl.GetStats("user:a")
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsInWindow)
	assert.Equal(t, 5, stats.Limit)
	assert.Equal(t, 3, stats.Remaining)
	assert.Equal(t, 60, stats.WindowSeconds)
}

func TestCleanupDropsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(5, 10*time.Millisecond, true)

	rl.AllowRequest("user:a")
	time.Sleep(15 * time.Millisecond)
	rl.AllowRequest("user:b")

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, stale := rl.windows["user:a"]
	_, live := rl.windows["user:b"]
	assert.False(t, stale)
	assert.True(t, live)
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, true)

	assert.True(t, rl.AllowRequest("user:a"))
	assert.False(t, rl.AllowRequest("user:a"))

	rl.Reset()
	assert.True(t, rl.AllowRequest("user:a"))
}
