package cache

import "time"

// Config carries the TTL policy of the caching layer. List and lookup entries
// are short-lived content; the version TTL is long-lived metadata and must
// comfortably outlast every content TTL, or a recycled version could briefly
// resurrect retired entries.
type Config struct {
	// ListTTL applies to filtered-list entries (versioned fingerprint keys).
	ListTTL time.Duration

	// LookupTTL applies to directly-addressed entries (profile, my-policies,
	// by-client, catalogs).
	LookupTTL time.Duration

	// VersionTTL applies to the per-collection version counters.
	VersionTTL time.Duration

	// HashedKeys switches the key builder to the xxhash fingerprint variant.
	HashedKeys bool
}

// DefaultConfig mirrors the production policy: two-minute content entries and
// thirty-day version counters.
func DefaultConfig() Config {
	return Config{
		ListTTL:    2 * time.Minute,
		LookupTTL:  2 * time.Minute,
		VersionTTL: DefaultVersionTTL,
	}
}

// Validate checks the TTL relationships.
func (c Config) Validate() error {
	if c.ListTTL <= 0 {
		return &ConfigError{Field: "ListTTL", Message: "must be greater than 0"}
	}
	if c.LookupTTL <= 0 {
		return &ConfigError{Field: "LookupTTL", Message: "must be greater than 0"}
	}
	if c.VersionTTL <= 0 {
		return &ConfigError{Field: "VersionTTL", Message: "must be greater than 0"}
	}
	if c.VersionTTL < c.ListTTL {
		return &ConfigError{Field: "VersionTTL", Message: "must not be shorter than ListTTL"}
	}
	return nil
}

// KeyBuilderFor returns the key builder selected by the configuration.
func (c Config) KeyBuilderFor() KeyBuilder {
	if c.HashedKeys {
		return NewHashedKeyBuilder()
	}
	return NewKeyBuilder()
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
