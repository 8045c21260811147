// Package repository composes the domain data-access ports with the caching
// layer. Each repository decides, per operation, which read path to use
// (versioned filtered list or directly-addressed lookup) and which
// invalidation style each mutation triggers (exact key removal, version
// bump, or both). Cache failures degrade to the source of truth and are
// reported through the Recorder; business errors propagate unchanged.
package repository
