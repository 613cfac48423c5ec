// Package blob provides the storage backends for the recipe text blob
package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps the recipe blob in memory
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates a memory store holding a copy of initial
func NewMemoryStore(initial []byte) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), initial...)}
}

// Read returns a copy of the blob
func (s *MemoryStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data...), nil
}

// Append adds data to the end of the blob
func (s *MemoryStore) Append(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, data...)
	return nil
}

// Replace overwrites the blob
func (s *MemoryStore) Replace(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

// Describe names the backend
func (s *MemoryStore) Describe() string {
	return "memory"
}

// String returns the blob as text
func (s *MemoryStore) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.data)
}
