// Package storage is a small durable key/value store for client state. Each
// key holds one opaque value, written whole.
package storage

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for keys that were never set.
var ErrNotFound = errors.New("storage: key not found")

// Storage holds values by key.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory returns a process-local Storage.
func NewMemory() Storage {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *memoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}
