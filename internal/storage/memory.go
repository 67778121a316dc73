package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// MemoryStore keeps objects in process memory. Used for tests and for
// seeding a server from an embedded bundle.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	gets    map[string]int
}

// NewMemory returns an empty memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		gets:    make(map[string]int),
	}
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

// Put stores a copy of data under key, replacing any existing object.
func (s *MemoryStore) Put(key string, data []byte) error {
	k, err := CleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[k] = append([]byte(nil), data...)
	return nil
}

// Get returns a reader over the object at key.
func (s *MemoryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	s.gets[k]++
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Gets reports how many times key was successfully read.
func (s *MemoryStore) Gets(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets[key]
}

// Keys returns all stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
