package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// WindowStore persists the per-key request history backing the sliding
// window. Implementations must be safe for concurrent use. The read-prune-
// append cycle in Policy.Evaluate is not atomic across processes; minor
// over-admission under concurrent writers to the same key is accepted.
type WindowStore interface {
	// GetHistory returns the stored timestamps for key, oldest first.
	// A missing or expired key yields an empty slice, not an error.
	GetHistory(ctx context.Context, key string) ([]int64, error)

	// SetHistory overwrites the stored timestamps and resets the TTL.
	SetHistory(ctx context.Context, key string, history []int64, ttl time.Duration) error
}

// RedisStore is the shared-cache WindowStore used when the API runs as more
// than one process.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetHistory(ctx context.Context, key string) ([]int64, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var history []int64
	if err := sonic.UnmarshalString(raw, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *RedisStore) SetHistory(ctx context.Context, key string, history []int64, ttl time.Duration) error {
	raw, err := sonic.Marshal(history)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}

// MemoryStore keeps histories in process memory. Suitable for single-process
// deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	history   []int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) GetHistory(_ context.Context, key string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	history := make([]int64, len(entry.history))
	copy(history, entry.history)
	return history, nil
}

func (s *MemoryStore) SetHistory(_ context.Context, key string, history []int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]int64, len(history))
	copy(stored, history)

	s.entries[key] = memoryEntry{
		history:   stored,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Reset drops a single key.
func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
