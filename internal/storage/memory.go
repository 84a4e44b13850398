package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps objects in a map. It backs tests and throwaway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	puts map[string]int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
		puts: make(map[string]int),
	}
}

func (s *MemoryStore) Put(_ context.Context, name string, content []byte) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = append([]byte(nil), content...)
	s.puts[name]++
	return nil
}

func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for name := range s.data {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Puts reports how many times name has been written.
func (s *MemoryStore) Puts(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts[name]
}
