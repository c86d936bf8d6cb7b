package memory

import (
	"context"
	"sort"
	"sync"
)

// MapStore keeps records in process memory. Records are lost on restart.
type MapStore struct {
	mu    sync.RWMutex
	creep map[string]Creep
}

func NewMapStore() *MapStore {
	return &MapStore{creep: make(map[string]Creep)}
}

func (s *MapStore) Get(_ context.Context, name string) (Creep, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.creep[name]
	return rec, ok, nil
}

func (s *MapStore) Put(_ context.Context, name string, rec Creep) error {
	s.mu.Lock()
	s.creep[name] = rec
	s.mu.Unlock()
	return nil
}

func (s *MapStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.creep, name)
	s.mu.Unlock()
	return nil
}

// Names returns record names in sorted order so cleanup logs are stable.
func (s *MapStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.creep))
	for name := range s.creep {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (s *MapStore) Close() error { return nil }
