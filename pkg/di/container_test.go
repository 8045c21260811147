package di

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/internal/cacheinfra"
)

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() error: %v", err)
	}

	if container.Store() == nil {
		t.Error("container has no store")
	}
	if container.KeyBuilder() == nil {
		t.Error("container has no key builder")
	}
	if container.ReadThrough() == nil {
		t.Error("container has no read-through facade")
	}
	if container.Coordinator() == nil {
		t.Error("container has no coordinator")
	}
	if got := container.Config().ListTTL; got != 2*time.Minute {
		t.Errorf("default list TTL = %v, want 2m", got)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	store, err := cacheinfra.NewSturdycStore(cacheinfra.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSturdycStore() error: %v", err)
	}

	cfg := cache.DefaultConfig()
	cfg.ListTTL = 0
	if _, err := NewContainer(store, cfg, nil); err == nil {
		t.Error("NewContainer() accepted a zero list TTL")
	}
}

func TestContainerSharesCountersAcrossFacades(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() error: %v", err)
	}
	ctx := context.Background()

	// A bump through the coordinator must be observed by the read side:
	// both facades sit on the same counter.
	if _, err := container.Versions().Current(ctx, "clients"); err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if err := container.Coordinator().BumpVersion(ctx, "clients"); err != nil {
		t.Fatalf("BumpVersion() error: %v", err)
	}

	v, err := container.ReadThrough().Versions().Current(ctx, "clients")
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if v != 2 {
		t.Errorf("read side observed version %d, want 2", v)
	}
}

func TestContainerHashedKeysConfig(t *testing.T) {
	store, err := cacheinfra.NewSturdycStore(cacheinfra.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSturdycStore() error: %v", err)
	}
	cfg := cache.DefaultConfig()
	cfg.HashedKeys = true

	container, err := NewContainer(store, cfg, nil)
	if err != nil {
		t.Fatalf("NewContainer() error: %v", err)
	}

	fields := []cache.FilterField{{Name: "name", Value: "laura", Fold: cache.FoldLower}}
	key := container.KeyBuilder().BuildKey("clients", 1, fields)
	if key == "clients:v1:name:laura" {
		t.Error("hashed configuration produced a plain fingerprint key")
	}
}
