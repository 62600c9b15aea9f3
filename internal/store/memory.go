package store

import (
	"sync"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

var _ types.Store = (*Memory)(nil)

// Memory is a map-backed Store. Its contents live as long as the value does,
// which matches a single page lifetime.
type Memory struct {
	mu     sync.RWMutex
	closed bool
	data   map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, types.ErrStoreClosed
	}
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrInvalidKey
	}
	m.data[key] = value
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	delete(m.data, key)
	return nil
}

// Close marks the store closed. Idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
