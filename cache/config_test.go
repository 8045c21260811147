package cache

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"zero list TTL", func(c *Config) { c.ListTTL = 0 }, "ListTTL"},
		{"zero lookup TTL", func(c *Config) { c.LookupTTL = 0 }, "LookupTTL"},
		{"zero version TTL", func(c *Config) { c.VersionTTL = 0 }, "VersionTTL"},
		{"version TTL shorter than list TTL", func(c *Config) { c.VersionTTL = time.Minute }, "VersionTTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Validate() flagged %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigKeyBuilderFor(t *testing.T) {
	fields := []FilterField{{Name: "name", Value: "laura", Fold: FoldLower}}

	plain := Config{HashedKeys: false}.KeyBuilderFor().BuildKey("clients", 1, fields)
	if plain != "clients:v1:name:laura" {
		t.Errorf("plain builder produced %q", plain)
	}

	hashed := Config{HashedKeys: true}.KeyBuilderFor().BuildKey("clients", 1, fields)
	if hashed == plain {
		t.Error("hashed builder produced the plain key")
	}
}
