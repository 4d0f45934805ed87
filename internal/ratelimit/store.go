package ratelimit

import (
	"sync"
	"time"
)

// Bucket is token bucket state of one key
type Bucket struct {
	Tokens     int
	LastRefill time.Time
}

// Store keeps buckets. Implementations must run Update atomically per key,
// so that concurrent refills and consumes never lose an update.
type Store interface {
	// Update calls fn with the bucket of key, exists is false for a new key.
	// Changes made by fn are saved, the result of fn is returned.
	Update(key string, fn func(b *Bucket, exists bool) bool) bool
	// Evict removes buckets for which stale returns true and returns their count
	Evict(stale func(b Bucket) bool) int
}

// MemoryStore is process-local Store. Every instance of the service
// enforces its own limit, a shared counter store is needed to limit a fleet.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*Bucket
}

// NewMemoryStore creates new MemoryStore instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*Bucket)}
}

// Update implements Store
func (ms *MemoryStore) Update(key string, fn func(b *Bucket, exists bool) bool) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	b, ok := ms.buckets[key]
	if !ok {
		b = &Bucket{}
	}
	res := fn(b, ok)
	ms.buckets[key] = b

	return res
}

// Evict implements Store
func (ms *MemoryStore) Evict(stale func(b Bucket) bool) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	n := 0
	for key, b := range ms.buckets {
		if stale(*b) {
			delete(ms.buckets, key)
			n++
		}
	}

	return n
}

// Len returns number of tracked keys
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}
