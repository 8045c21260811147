package cacheinfra

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-insurance-cache/cache"
)

// Config holds the configuration for the in-process sturdyc store.
type Config struct {
	// Capacity defines the maximum number of entries the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// MaxTTL is the upper bound handed to the sturdyc client. Per-entry TTLs
	// shorter than this are enforced by the adapter; entries never outlive it.
	// Must be greater than 0 and cover the longest TTL in use, which for this
	// store means the version-counter TTL.
	MaxTTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the cache reaches its capacity. Must be between 1-100. Default: 10
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration

	// Clock supplies wall-clock reads for per-entry deadlines. Nil uses the
	// system clock.
	Clock cache.Clock
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		MaxTTL:             cache.DefaultVersionTTL,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
// Returns an error if any configuration parameter is invalid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.MaxTTL <= 0 {
		return &ConfigError{Field: "MaxTTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

func (c Config) sturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// entry is one payload row. The sturdyc client evicts on capacity and MaxTTL;
// the adapter enforces the caller's shorter per-entry deadline itself.
type entry struct {
	data     []byte
	deadline time.Time
}

// counterCell is one version counter. Counters live outside the payload cache
// in a concurrent map so IncrBy is a single atomic read-modify-write, never a
// racy get-then-set.
type counterCell struct {
	value    int64
	deadline time.Time
}

// SturdycStore is the in-process cache.CounterStore, backed by a sturdyc
// client for payload entries and an xsync map for version counters.
type SturdycStore struct {
	client   *sturdyc.Client[entry]
	counters *xsync.MapOf[string, counterCell]
	clock    cache.Clock
}

// NewSturdycStore validates the configuration and builds the store.
//
// Version compatibility note: this implementation assumes sturdyc v1.x API.
// Monitor sturdyc version upgrades for potential option mapping changes.
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = cache.SystemClock()
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		cfg.sturdycOptions()...,
	)

	return &SturdycStore{
		client:   client,
		counters: xsync.NewMapOf[string, counterCell](),
		clock:    clock,
	}, nil
}

// Get implements cache.Store. An entry past its per-entry deadline is removed
// and reported as a miss even if sturdyc has not evicted it yet.
func (s *SturdycStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.clock.Now().Before(e.deadline) {
		s.client.Delete(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set implements cache.Store.
func (s *SturdycStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return &ConfigError{Field: "ttl", Message: "must be greater than 0"}
	}
	s.client.Set(key, entry{data: value, deadline: s.clock.Now().Add(ttl)})
	return nil
}

// Remove implements cache.Store. Keys are cleared from both the payload cache
// and the counter map, so removing a version key resets its counter.
func (s *SturdycStore) Remove(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.client.Delete(key)
		s.counters.Delete(key)
	}
	return nil
}

// IncrBy implements cache.Incrementer. The whole read-modify-write runs inside
// one Compute call, so concurrent bumps of the same counter serialize and none
// is lost. An expired cell restarts from zero before the delta applies.
func (s *SturdycStore) IncrBy(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	now := s.clock.Now()
	cell, _ := s.counters.Compute(key, func(old counterCell, loaded bool) (counterCell, bool) {
		value := old.value
		if !loaded || !now.Before(old.deadline) {
			value = 0
		}
		return counterCell{value: value + delta, deadline: now.Add(ttl)}, false
	})
	return cell.value, nil
}
