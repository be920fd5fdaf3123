package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryService implements CacheService with an in-process TTL map. Entries
// are immutable once stored and replaced wholesale on refresh; expiry is the
// only other mutation path. There is no size bound beyond TTL eviction.
type MemoryService struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryService creates a new in-memory cache service
func NewMemoryService() *MemoryService {
	return &MemoryService{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value, dropping the entry if its TTL has passed.
func (m *MemoryService) Get(key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value with an expiration time
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(expiration),
	}
	m.mu.Unlock()
	return nil
}

// Delete removes a value from the cache
func (m *MemoryService) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries, expired or not.
func (m *MemoryService) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
