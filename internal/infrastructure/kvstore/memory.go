package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = 10 * time.Minute

// entry is a stored value with an optional expiration
type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is a thread-safe in-process key-value store with TTL support
type Memory struct {
	data  map[string]entry
	mutex sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a store that sweeps expired entries every interval.
// A non-positive interval uses DefaultCleanupInterval.
func NewMemory(interval time.Duration) *Memory {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	store := &Memory{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}
	go store.cleanupExpired(interval)

	return store
}

// Get returns a copy of the value or domain.ErrKeyNotFound
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, ok := m.data[key]
	if !ok || item.expired(time.Now()) {
		return nil, domain.ErrKeyNotFound
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a copy of value; ttl <= 0 never expires
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	item := entry{value: stored}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = item
	return nil
}

// Delete removes a key; missing keys are not an error
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.data, key)
	return nil
}

// Exists checks if a key exists and is not expired
func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, ok := m.data[key]
	return ok && !item.expired(time.Now()), nil
}

// Len returns the number of stored entries, including expired ones not yet swept
func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.data)
}

// Close stops the cleanup goroutine
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Memory) sweep(now time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, item := range m.data {
		if item.expired(now) {
			delete(m.data, key)
		}
	}
}
