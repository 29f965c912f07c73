// Package kvstore provides the key-value persistence layer used by the
// repositories. Every key holds exactly one JSON document; a missing key
// is reported as ErrKeyNotFound, never as a failure.
package kvstore

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the uniform persistence contract. Implementations must tolerate
// reads before any data exists and must never panic on storage failures.
type Store interface {
	// Get returns the raw JSON document stored under key.
	// Returns ErrKeyNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the raw JSON document under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing a missing key is a no-op.
	Remove(ctx context.Context, key string) error

	// ListKeys returns every key currently present, sorted. Used only for
	// bulk-wipe, so it does not need to be cheap.
	ListKeys(ctx context.Context) ([]string, error)
}

// MemoryStore is a process-local Store used in tests and as the fallback
// when no durable directory is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) ListKeys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
