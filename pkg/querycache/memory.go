package querycache

import (
	"encoding/json"
	"sync"
	"time"
)

// MemoryDriver is an in-process cache. Values are stored as JSON bytes so the
// behaviour (deep copies, type fidelity) matches the Redis driver exactly.
type MemoryDriver struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryDriver creates an empty in-process cache.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{entries: map[string]memoryEntry{}}
}

func (d *MemoryDriver) Name() string { return "memory" }

func (d *MemoryDriver) Get(key string, dest interface{}) bool {
	d.mu.RLock()
	e, ok := d.entries[key]
	d.mu.RUnlock()

	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		d.mu.Lock()
		delete(d.entries, key)
		d.mu.Unlock()
		return false
	}
	return json.Unmarshal(e.data, dest) == nil
}

func (d *MemoryDriver) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	d.mu.Unlock()
	return nil
}

func (d *MemoryDriver) Forget(keys ...string) error {
	d.mu.Lock()
	for _, k := range keys {
		delete(d.entries, k)
	}
	d.mu.Unlock()
	return nil
}
