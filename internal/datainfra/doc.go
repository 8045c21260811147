// Package datainfra is the bun/SQLite source of truth behind the caching
// layer. It implements the repository data ports and the audit recorder, and
// stamps every write in the business timezone.
package datainfra
