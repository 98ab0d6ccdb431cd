package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KeyValueStore = (*KVStore)(nil)

// KVStore is an in-memory implementation of driven.KeyValueStore.
// A positive quota bounds the total size of keys and values in bytes.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
	size   int
	quota  int
}

// NewKVStore creates an unbounded in-memory key-value store.
func NewKVStore() *KVStore {
	return NewKVStoreWithQuota(0)
}

// NewKVStoreWithQuota creates a store that rejects writes beyond quota bytes.
// A quota of zero or less means unbounded.
func NewKVStoreWithQuota(quota int) *KVStore {
	return &KVStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

// Get returns the value for key.
func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.size + len(key) + len(value)
	if old, ok := s.values[key]; ok {
		size -= len(key) + len(old)
	}
	if s.quota > 0 && size > s.quota {
		return domain.ErrQuotaExceeded
	}

	s.values[key] = value
	s.size = size
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok {
		s.size -= len(key) + len(old)
		delete(s.values, key)
	}
	return nil
}

// Len returns the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Size returns the bytes used by keys and values.
func (s *KVStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}
