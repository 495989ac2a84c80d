package store

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory implementation of Backend.
type MemoryBackend struct {
	records map[Key][]byte
	mu      sync.RWMutex
}

// NewMemoryBackend creates a new, empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[Key][]byte),
	}
}

// Get returns a copy of the bytes stored under key.
func (b *MemoryBackend) Get(_ context.Context, key Key) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores all entries under a single lock.
func (b *MemoryBackend) Put(_ context.Context, entries ...Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range entries {
		data := make([]byte, len(e.Value))
		copy(data, e.Value)
		b.records[e.Key] = data
	}
	return nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}
