package cache

import (
	"context"
	"errors"
)

// Coordinator applies the two invalidation styles after a committed mutation:
// exact removal of directly-addressed keys, and a version bump that retires
// every filtered-list key of a collection at once.
//
// Callers invoke it only after the source of truth has accepted the write; a
// failed mutation performs no invalidation, because the cache then still
// reflects accurate pre-mutation data. Coordinator errors are returned so the
// caller can record them, but they never fail the mutation.
type Coordinator struct {
	store    Store
	versions VersionCounter
}

// NewCoordinator wires invalidation over the same store and counter the read
// path uses.
func NewCoordinator(store Store, versions VersionCounter) *Coordinator {
	return &Coordinator{store: store, versions: versions}
}

// Remove deletes the given directly-addressed keys.
func (c *Coordinator) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.store.Remove(ctx, keys...)
}

// BumpVersion advances the collection version, making every filtered-list
// key built under the previous version unreachable. The retired entries decay
// on their own TTL.
func (c *Coordinator) BumpVersion(ctx context.Context, collection string) error {
	_, err := c.versions.Bump(ctx, collection)
	return err
}

// Invalidate performs both styles for one mutation: removes the listed direct
// keys, then bumps the collection version. Both halves are attempted even if
// one fails.
func (c *Coordinator) Invalidate(ctx context.Context, collection string, directKeys ...string) error {
	removeErr := c.Remove(ctx, directKeys...)
	bumpErr := c.BumpVersion(ctx, collection)
	return errors.Join(removeErr, bumpErr)
}
