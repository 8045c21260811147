package cache

import (
	"context"
	"time"
)

// DefaultVersionTTL is how long a collection version survives without a
// write. Versions are long-lived metadata, not cached content: losing one
// merely restarts the collection at version 1, which is safe because every
// previously built key embedded a different version and stays unreachable.
const DefaultVersionTTL = 30 * 24 * time.Hour

// VersionCounter hands out the per-collection monotonic version embedded in
// filtered-list cache keys. Bumping the version makes every key built under
// the previous version unreachable at once, without enumerating them.
type VersionCounter interface {
	// Current returns the collection's version, initializing it to 1 if the
	// backend has no (or a non-positive) value.
	Current(ctx context.Context, collection string) (int64, error)

	// Bump advances the version and refreshes its TTL. The returned value is
	// informational; callers treat Bump as fire-and-forget and only log its
	// error.
	Bump(ctx context.Context, collection string) (int64, error)
}

const versionKeyPrefix = "version" + KeySeparator

type storeVersionCounter struct {
	inc Incrementer
	ttl time.Duration
}

// NewVersionCounter returns a VersionCounter persisted through the store's
// atomic increment primitive. Building on IncrBy rather than a get-then-set
// pair means two concurrent bumps always yield two distinct versions; the
// lost-update race of a read-modify-write counter cannot occur.
func NewVersionCounter(inc Incrementer, ttl time.Duration) VersionCounter {
	if ttl <= 0 {
		ttl = DefaultVersionTTL
	}
	return &storeVersionCounter{inc: inc, ttl: ttl}
}

func (c *storeVersionCounter) Current(ctx context.Context, collection string) (int64, error) {
	key := versionKeyPrefix + collection
	n, err := c.inc.IncrBy(ctx, key, 0, c.ttl)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		// Fresh (or tampered) counter: settle it at exactly 1.
		return c.inc.IncrBy(ctx, key, 1-n, c.ttl)
	}
	return n, nil
}

func (c *storeVersionCounter) Bump(ctx context.Context, collection string) (int64, error) {
	return c.inc.IncrBy(ctx, versionKeyPrefix+collection, 1, c.ttl)
}
