package auth

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenStore holds pending magic-link tokens. Tokens are single-use:
// Consume returns the email bound to a live token and removes it.
// The in-memory implementation is process-local; the Redis one can be
// shared across instances.
type TokenStore interface {
	Put(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, bool, error)
	Purge(ctx context.Context) error
}

type memoryEntry struct {
	email   string
	expires time.Time
}

// MemoryTokenStore is a mutex-guarded in-memory token store.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryEntry
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]memoryEntry),
		now:    time.Now,
	}
}

func (s *MemoryTokenStore) Put(_ context.Context, token, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryEntry{email: email, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Consume(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return "", false, nil
	}
	delete(s.tokens, token)
	if s.now().After(entry.expires) {
		return "", false, nil
	}
	return entry.email, true, nil
}

// Purge drops expired tokens. Live tokens are untouched.
func (s *MemoryTokenStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, entry := range s.tokens {
		if now.After(entry.expires) {
			delete(s.tokens, token)
		}
	}
	return nil
}

const redisTokenPrefix = "magiclink:"

// RedisTokenStore keeps magic-link tokens in Redis with native TTLs.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Put(ctx context.Context, token, email string, ttl time.Duration) error {
	return s.client.Set(ctx, redisTokenPrefix+token, email, ttl).Err()
}

func (s *RedisTokenStore) Consume(ctx context.Context, token string) (string, bool, error) {
	key := redisTokenPrefix + token
	email, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return "", false, err
	}
	return email, true, nil
}

// Purge is a no-op: Redis expires keys on its own.
func (s *RedisTokenStore) Purge(context.Context) error {
	return nil
}
