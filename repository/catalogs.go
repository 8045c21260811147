package repository

import (
	"context"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/insurance"
)

// CatalogRepository serves the static catalogs through the cache. Catalogs
// never mutate at runtime, so their entries keep the legacy fixed keys and
// simply expire; there is no invalidation mapping for them.
type CatalogRepository struct {
	data  CatalogData
	cache *cache.ReadThrough
	cfg   cache.Config
}

// NewCatalogRepository wires a catalog repository.
func NewCatalogRepository(data CatalogData, rt *cache.ReadThrough, cfg cache.Config) *CatalogRepository {
	return &CatalogRepository{data: data, cache: rt, cfg: cfg}
}

// States returns the address-state catalog.
func (r *CatalogRepository) States(ctx context.Context) ([]insurance.State, error) {
	return cache.Lookup(ctx, r.cache, statesKey, r.cfg.LookupTTL, r.data.States)
}

// PolicyTypes returns the policy-product catalog.
func (r *CatalogRepository) PolicyTypes(ctx context.Context) ([]insurance.PolicyType, error) {
	return cache.Lookup(ctx, r.cache, policyTypesKey, r.cfg.LookupTTL, r.data.PolicyTypes)
}

// PolicyStatuses returns the lifecycle-status catalog.
func (r *CatalogRepository) PolicyStatuses(ctx context.Context) ([]insurance.StatusDescriptor, error) {
	return cache.Lookup(ctx, r.cache, policyStatusesKey, r.cfg.LookupTTL, r.data.PolicyStatuses)
}
