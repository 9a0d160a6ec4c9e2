package idempotency

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store dedupes work by key within the TTL. Seen only reads; callers Mark a
// key once the work it guards has actually completed, so a failed attempt
// stays retryable. Used for checkout Idempotency-Key headers and order
// confirmations.
type Store interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

func Key(parts ...string) string {
	return "idem:" + strings.Join(parts, ":")
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency exists: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Mark(ctx context.Context, key string) error {
	if err := s.rdb.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency set: %w", err)
	}
	return nil
}

// MemoryStore backs redis-less runs and tests.
type MemoryStore struct {
	ttl time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, seen: make(map[string]time.Time)}
}

func (s *MemoryStore) Seen(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.seen[key]
	return ok && (s.ttl <= 0 || time.Since(at) < s.ttl), nil
}

func (s *MemoryStore) Mark(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[key] = time.Now()
	return nil
}
