package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// memoryStore implements Store in process memory. Values are stored
// JSON-encoded so callers never share mutable state with the cache.
type memoryStore struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	versions map[string]int64
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-process cache used when Redis is disabled.
func NewMemoryStore(ttl time.Duration) Store {
	return newMemoryStore(ttl, time.Now)
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *memoryStore {
	return &memoryStore{
		entries:  make(map[string]memoryEntry),
		versions: make(map[string]int64),
		ttl:      ttl,
		now:      now,
	}
}

func (s *memoryStore) Version(ctx context.Context, entity string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[entity], nil
}

func (s *memoryStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if s.ttl > 0 && s.now().After(entry.expires) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{data: data, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Invalidate bumps the entity version and drops its entries.
func (s *memoryStore) Invalidate(ctx context.Context, entity string) error {
	prefix := "cache:" + entity + ":"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[entity]++
	for key := range s.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.entries, key)
		}
	}
	return nil
}
