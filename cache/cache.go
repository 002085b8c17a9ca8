// Package cache implements the shared search-result cache behind the
// interfaces.CacheStore contract: a Redis-backed store for deployments and an
// in-memory TTL store used when no Redis address is configured.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medregistry/search-gateway/logging"
	"github.com/medregistry/search-gateway/registry/entities"
)

// RedisStore caches pages in Redis with native TTL expiry.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Get returns the cached page for key, or absent. Decode failures are treated
// as a miss so a poisoned entry can never fail a request.
func (s *RedisStore) Get(ctx context.Context, key string) (*entities.CachedPage, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var page entities.CachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		logging.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &page, true
}

// Put writes the page under key with the given time-to-live.
func (s *RedisStore) Put(ctx context.Context, key string, page *entities.CachedPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// memoryEntry is one in-memory cache slot.
type memoryEntry struct {
	page      *entities.CachedPage
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryStore is a mutex-guarded map with lazy TTL expiry on read. Racing
// writers of the same key resolve last-write-wins.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get returns the cached page for key. Expired entries are treated as absent
// and removed.
func (s *MemoryStore) Get(_ context.Context, key string) (*entities.CachedPage, bool) {
	now := time.Now()

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if entry.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock; a fresh write may have raced us.
		if current, ok := s.entries[key]; ok && current.expired(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return entry.page, true
}

// Put stores the page under key for the given time-to-live.
func (s *MemoryStore) Put(_ context.Context, key string, page *entities.CachedPage, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{page: page, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// PurgeExpired removes entries past their TTL and reports how many were
// dropped. Expiry is already lazy on read; this only bounds memory growth
// from keys that are never read again.
func (s *MemoryStore) PurgeExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for key, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged
}
