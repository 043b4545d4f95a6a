// Package cache holds the short-lived state shared between backend replicas,
// currently the idempotency records of order submissions.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore de-duplicates requests carrying the same key.
//
// TryLock claims a key; only the first caller gets true. Remember maps a
// claimed key to the resulting resource ID so a retry can Recall it. Release
// drops a claim whose request failed so the client may retry.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	Release(ctx context.Context, scope, key string) error
}

func lockKey(scope, key string) string {
	return "idemp:" + scope + ":" + key
}

func mapKey(scope, key string) string {
	return "idemp:map:" + scope + ":" + key
}

// RedisIdempotencyStore keeps idempotency records in Redis with a TTL.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ IdempotencyStore = (*RedisIdempotencyStore)(nil)

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, lockKey(scope, key), "1", s.ttl).Result()
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, mapKey(scope, key), value, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, mapKey(scope, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	return val, err == nil, err
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, lockKey(scope, key)).Err()
}

// MemoryIdempotencyStore is the single-process store used when no Redis
// address is configured.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time
}

var _ IdempotencyStore = (*MemoryIdempotencyStore)(nil)

func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryIdempotencyStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := lockKey(scope, key)
	if _, ok := s.get(k); ok {
		return false, nil
	}
	s.set(k, "1")
	return true, nil
}

func (s *MemoryIdempotencyStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set(mapKey(scope, key), value)
	return nil
}

func (s *MemoryIdempotencyStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.get(mapKey(scope, key))
	return v, ok, nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, lockKey(scope, key))
	return nil
}

// get must be called with mu held. Expired entries are dropped on access.
func (s *MemoryIdempotencyStore) get(k string) (string, bool) {
	e, ok := s.entries[k]
	if !ok {
		return "", false
	}
	if s.ttl > 0 && !s.now().Before(e.expires) {
		delete(s.entries, k)
		return "", false
	}
	return e.value, true
}

func (s *MemoryIdempotencyStore) set(k, v string) {
	s.entries[k] = memoryEntry{value: v, expires: s.now().Add(s.ttl)}
}
