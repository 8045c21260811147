package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// memStore is an in-memory CounterStore for tests. It counts calls and can be
// told to fail each operation, so tests can assert which side of the cache a
// code path touched.
type memStore struct {
	mu       sync.Mutex
	entries  map[string][]byte
	counters map[string]int64

	getCalls    int
	setCalls    int
	removeCalls int
	incrCalls   int

	failGet    bool
	failSet    bool
	failRemove bool
	failIncr   bool
}

var errStoreDown = errors.New("store unavailable")

func newMemStore() *memStore {
	return &memStore{
		entries:  make(map[string][]byte),
		counters: make(map[string]int64),
	}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.failGet {
		return nil, false, errStoreDown
	}
	data, ok := s.entries[key]
	return data, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.failSet {
		return errStoreDown
	}
	s.entries[key] = value
	return nil
}

func (s *memStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeCalls++
	if s.failRemove {
		return errStoreDown
	}
	for _, k := range keys {
		delete(s.entries, k)
		delete(s.counters, k)
	}
	return nil
}

func (s *memStore) IncrBy(_ context.Context, key string, delta int64, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incrCalls++
	if s.failIncr {
		return 0, errStoreDown
	}
	s.counters[key] += delta
	return s.counters[key], nil
}

func (s *memStore) keyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
