package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter tracks and enforces per-key request rate limits using a
// sliding window. Keys are typically "user:<id>" or "ip:<addr>".
type RateLimiter struct {
	limit   int
	window  time.Duration
	enabled bool

	// Request tracking
	windows map[string][]time.Time
	mu      sync.Mutex
}

// NewRateLimiter creates a new rate limiter allowing limit requests per
// key per window.
func NewRateLimiter(limit int, window time.Duration, enabled bool) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		enabled: enabled,
		windows: make(map[string][]time.Time),
	}
}

// AllowRequest checks if a request under the key is allowed.
// Returns true if allowed, false if the rate limit is exceeded.
func (rl *RateLimiter) AllowRequest(key string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	requests := filterTimes(rl.windows[key], cutoff)
	if len(requests) >= rl.limit {
		rl.windows[key] = requests
		return false
	}

	rl.windows[key] = append(requests, now)
	return true
}

// Cleanup drops keys whose windows hold no live entries. Called
// periodically so idle keys don't accumulate.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	for key, requests := range rl.windows {
		live := filterTimes(requests, cutoff)
		if len(live) == 0 {
			delete(rl.windows, key)
		} else {
			rl.windows[key] = live
		}
	}
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Stats contains rate limiter statistics for one key
type Stats struct {
	Enabled          bool `json:"enabled"`
	RequestsInWindow int  `json:"requests_in_window"`
	Limit            int  `json:"limit"`
	Remaining        int  `json:"remaining"`
	WindowSeconds    int  `json:"window_seconds"`
}

// GetStats returns current statistics for a key
func (rl *RateLimiter) GetStats(key string) Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	live := filterTimes(rl.windows[key], cutoff)
	rl.windows[key] = live

	return Stats{
		Enabled:          true,
		RequestsInWindow: len(live),
		Limit:            rl.limit,
		Remaining:        max(0, rl.limit-len(live)),
		WindowSeconds:    int(rl.window.Seconds()),
	}
}

// RetryAfter returns the client-facing retry hint in seconds.
func (rl *RateLimiter) RetryAfter() int {
	return int(rl.window.Seconds())
}

// Reset clears all tracked requests (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.windows = make(map[string][]time.Time)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
