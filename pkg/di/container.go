package di

import (
	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/internal/cacheinfra"
	"github.com/goliatone/go-insurance-cache/repository"
)

// Container provides dependency injection for the caching layer. It manages
// singleton instances of the store, key builder, version counter and the two
// cache facades, and provides factory methods for the domain repositories.
type Container struct {
	store      cache.CounterStore
	keys       cache.KeyBuilder
	versions   cache.VersionCounter
	readers    *cache.ReadThrough
	invalidate *cache.Coordinator
	recorder   repository.Recorder
	cacheCfg   cache.Config
}

// NewContainer creates a new DI container over the given backend. The cache
// configuration is validated up front; the version counter, read-through
// facade and invalidation coordinator all share the one store so reads and
// bumps observe the same counters.
func NewContainer(store cache.CounterStore, cfg cache.Config, recorder repository.Recorder) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = repository.NopRecorder{}
	}

	versions := cache.NewVersionCounter(store, cfg.VersionTTL)
	keys := cfg.KeyBuilderFor()

	return &Container{
		store:      store,
		keys:       keys,
		versions:   versions,
		readers:    cache.NewReadThrough(store, versions, keys),
		invalidate: cache.NewCoordinator(store, versions),
		recorder:   recorder,
		cacheCfg:   cfg,
	}, nil
}

// NewContainerWithDefaults creates a container over an in-process store with
// default settings. This is a convenience constructor for typical single
// instance deployments.
func NewContainerWithDefaults() (*Container, error) {
	store, err := cacheinfra.NewSturdycStore(cacheinfra.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return NewContainer(store, cache.DefaultConfig(), nil)
}

// Store returns the singleton backend instance.
// This allows access to the underlying store for advanced use cases.
func (c *Container) Store() cache.CounterStore {
	return c.store
}

// KeyBuilder returns the singleton key builder instance.
func (c *Container) KeyBuilder() cache.KeyBuilder {
	return c.keys
}

// Versions returns the singleton version counter instance.
func (c *Container) Versions() cache.VersionCounter {
	return c.versions
}

// ReadThrough returns the singleton read-through facade.
func (c *Container) ReadThrough() *cache.ReadThrough {
	return c.readers
}

// Coordinator returns the singleton invalidation coordinator.
func (c *Container) Coordinator() *cache.Coordinator {
	return c.invalidate
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.cacheCfg
}

// NewClientRepository creates a client repository over the given data port,
// wired to the container's cache facades and recorder.
func (c *Container) NewClientRepository(data repository.ClientData, resolver repository.Resolver) *repository.ClientRepository {
	return repository.NewClientRepository(data, resolver, c.readers, c.invalidate, c.recorder, c.cacheCfg)
}

// NewPolicyRepository creates a policy repository over the given data port.
func (c *Container) NewPolicyRepository(data repository.PolicyData) *repository.PolicyRepository {
	return repository.NewPolicyRepository(data, c.readers, c.invalidate, c.recorder, c.cacheCfg)
}

// NewCatalogRepository creates a catalog repository over the given data port.
func (c *Container) NewCatalogRepository(data repository.CatalogData) *repository.CatalogRepository {
	return repository.NewCatalogRepository(data, c.readers, c.cacheCfg)
}

// NewUserRepository creates a user repository over the given data port.
func (c *Container) NewUserRepository(data repository.UserData) *repository.UserRepository {
	return repository.NewUserRepository(data, c.recorder)
}
