package cache

import (
	"context"
	"reflect"
	"time"
)

// ReadThrough bundles the store, version counter and key builder behind the
// two read paths callers use: versioned filtered lists and fixed-key lookups.
//
// Failure handling is split into two regions. Anything that goes wrong on the
// cache side — counter unreachable, store get/set failure, undecodable
// payload — silently degrades to a fetch from the source of truth. Anything
// the fetch itself returns is a business outcome and propagates unchanged.
type ReadThrough struct {
	store    Store
	versions VersionCounter
	keys     KeyBuilder
}

// NewReadThrough wires a read-through facade over the given backend.
func NewReadThrough(store Store, versions VersionCounter, keys KeyBuilder) *ReadThrough {
	return &ReadThrough{store: store, versions: versions, keys: keys}
}

// Store exposes the underlying store for directly-addressed operations.
func (rt *ReadThrough) Store() Store { return rt.store }

// Versions exposes the version counter shared with the invalidation side.
func (rt *ReadThrough) Versions() VersionCounter { return rt.versions }

// ReadList serves a filtered list query through the cache. The key embeds the
// collection version read before the fetch, so a version bump issued by any
// later mutation retires this entry without touching it.
//
// Empty results are returned but never cached: a transient "no rows" must not
// mask rows that land moments later.
func ReadList[T any](
	ctx context.Context,
	rt *ReadThrough,
	collection string,
	fields []FilterField,
	ttl time.Duration,
	fetch func(context.Context) ([]T, error),
) ([]T, error) {
	version, err := rt.versions.Current(ctx, collection)
	if err != nil {
		// Counter unreachable: skip the cache entirely rather than risk
		// addressing a stale generation.
		return fetch(ctx)
	}

	key := rt.keys.BuildKey(collection, version, fields)
	if cached, ok, gerr := GetTyped[[]T](ctx, rt.store, key); gerr == nil && ok {
		return cached, nil
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Best effort: a failed write just means the next read fetches again.
	_ = SetTyped(ctx, rt.store, key, out, ttl)
	return out, nil
}

// Lookup serves a directly-addressed entry (profile, my-policies, by-client)
// through the cache under a stable key. These keys are not version-namespaced:
// they are invalidated by exact removal.
func Lookup[T any](
	ctx context.Context,
	rt *ReadThrough,
	key string,
	ttl time.Duration,
	fetch func(context.Context) (T, error),
) (T, error) {
	if cached, ok, gerr := GetTyped[T](ctx, rt.store, key); gerr == nil && ok {
		return cached, nil
	}

	out, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if isEmptyResult(out) {
		return out, nil
	}

	_ = SetTyped(ctx, rt.store, key, out, ttl)
	return out, nil
}

// isEmptyResult reports whether a fetched value counts as absent for the
// negative-result rule: nil, nil pointers/interfaces and empty slices or maps
// are never written to the cache.
func isEmptyResult(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	}
	return false
}
