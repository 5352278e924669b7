package cache

import (
	"context"
	"sync"
	"time"

	"sceneforge/internal/core"
)

// MemoryStore is the in-memory Store backend. Entries expire lazily on Get
// and the store holds at most capacity entries, evicting the oldest-inserted
// entry (not least-recently-accessed) to make room.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	ttl      time.Duration
	capacity int

	// now is swappable for expiry tests.
	now func() time.Time
}

type memoryEntry struct {
	records    []core.ModelRecord
	insertedAt time.Time
}

// NewMemoryStore creates a memory store. Non-positive ttl or capacity fall
// back to the package defaults.
func NewMemoryStore(ttl time.Duration, capacity int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		entries:  make(map[string]memoryEntry, capacity),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached records for key, or (nil, false) when absent or
// expired. An expired entry is removed by the failed read.
func (s *MemoryStore) Get(_ context.Context, key string) ([]core.ModelRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.insertedAt) > s.ttl {
		delete(s.entries, key)
		return nil, false
	}
	return entry.records, true
}

// Set stores records under key. A fresh write (including an overwrite)
// resets the entry's insertion time. When the store is full and key is new,
// the single oldest-inserted entry is evicted first.
func (s *MemoryStore) Set(_ context.Context, key string, records []core.ModelRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	s.entries[key] = memoryEntry{
		records:    records,
		insertedAt: s.now(),
	}
}

// evictOldestLocked removes the entry with the earliest insertion time.
// Callers must hold s.mu.
func (s *MemoryStore) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range s.entries {
		if first || e.insertedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.insertedAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldestKey)
	}
}

// Clear drops all entries unconditionally.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry, s.capacity)
}

// Len returns the current entry count, for diagnostics.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
