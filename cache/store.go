package cache

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Store is the minimal key/value contract the caching layer needs from a
// backend: byte payloads with a per-entry TTL. Implementations live in
// internal/cacheinfra (in-process sturdyc, distributed redis).
//
// A Store never interprets payloads; serialization happens at the typed
// boundary (GetTyped/SetTyped) so every backend stores the same bytes.
type Store interface {
	// Get returns the payload for key. The boolean reports whether the key
	// was present and unexpired. A backend failure is returned as an error
	// and is always treated by callers as a miss, never as a request failure.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the payload under key for the given TTL. A non-positive TTL
	// is rejected by adapters via their config defaults.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}

// Incrementer is the atomic counter capability a Store must provide for
// version counters. IncrBy adds delta to the integer stored at key, creating
// it at zero if absent, refreshes the entry TTL, and returns the new value.
// A zero delta reads the current value.
//
// Counters are kept apart from regular payload entries: backends store them
// in a native integer representation (redis INCRBY, in-process atomic cells)
// so concurrent bumps never lose an increment.
type Incrementer interface {
	IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}

// CounterStore combines the payload and counter capabilities. Both built-in
// adapters satisfy it; the DI container wires version counters and the
// read-through path from a single backend.
type CounterStore interface {
	Store
	Incrementer
}

// Clock abstracts wall-clock reads so TTL behaviour is testable. Production
// code uses SystemClock; tests inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// GetTyped reads key from the store and decodes the payload into T via
// msgpack. Backend errors and undecodable payloads are both reported as a
// miss: the caller falls through to the source of truth either way.
func GetTyped[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	var out T
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return zero, false, nil
	}
	return out, true, nil
}

// SetTyped encodes value via msgpack and stores it under key with the given
// TTL.
func SetTyped[T any](ctx context.Context, s Store, key string, value T, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data, ttl)
}
