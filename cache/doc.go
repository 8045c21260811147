// Package cache implements the read-through caching and invalidation core of
// the insurance back office.
//
// # Overview
//
// Four pieces cooperate:
//
//   - Store: a minimal byte-oriented key/value port with per-entry TTL,
//     implemented by the adapters in internal/cacheinfra.
//   - KeyBuilder: deterministic keys of the form
//     {collection}:v{version}:{field}:{value}:... built from a normalized,
//     order-stable filter fingerprint.
//   - VersionCounter: a per-collection monotonic integer, persisted in the
//     Store through its atomic increment primitive, that namespaces every
//     filtered-list key.
//   - ReadThrough / Coordinator: the read and write sides. Reads consult the
//     current version, try the store, and fall through to a fetch function on
//     a miss. Mutations remove directly-addressed keys and/or bump the
//     collection version.
//
// # Invalidation by version bump
//
// Filtered list queries can be cached under an unbounded number of
// fingerprints, so invalidating them by enumeration is impossible. Instead
// every key embeds the collection version read before the fetch. Bumping the
// counter makes all previously built keys unreachable in one write; the
// orphaned entries simply decay on their own short TTL.
//
// Directly-addressed entries (a client profile, a user's policies) use stable
// keys outside the version namespace and are invalidated by exact removal.
//
// # Failure regions
//
// Cache-side failures are never surfaced to a request. A store or counter
// error on the read path degrades to a source-of-truth fetch; a failed
// populate means the next read fetches again. Errors returned by the fetch
// function itself are business outcomes and propagate unchanged. Negative
// (empty) fetch results are returned but never cached.
//
// # Concurrency
//
// There is no cross-request locking: concurrent cold reads of the same query
// each fetch and overwrite the same key, which is benign because the fetch is
// idempotent. Version counters ride on the store's atomic increment, so
// concurrent bumps cannot lose an update.
package cache
