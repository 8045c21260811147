package repository

import (
	"context"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/insurance"
)

// ClientRepository serves client queries through the cache and keeps the
// cache coherent across client mutations. List results ride the versioned
// "clients" collection; the profile view rides a directly-addressed key that
// mutations remove exactly.
type ClientRepository struct {
	data       ClientData
	resolver   Resolver
	cache      *cache.ReadThrough
	invalidate *cache.Coordinator
	recorder   Recorder
	cfg        cache.Config
}

// NewClientRepository wires a client repository. A nil recorder degrades to
// NopRecorder.
func NewClientRepository(
	data ClientData,
	resolver Resolver,
	rt *cache.ReadThrough,
	inv *cache.Coordinator,
	recorder Recorder,
	cfg cache.Config,
) *ClientRepository {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ClientRepository{
		data:       data,
		resolver:   resolver,
		cache:      rt,
		invalidate: inv,
		recorder:   recorder,
		cfg:        cfg,
	}
}

// List returns the clients matching the filter, cached per filter fingerprint
// under the current "clients" version.
func (r *ClientRepository) List(ctx context.Context, filter insurance.ClientFilter, actorID int) ([]insurance.Client, error) {
	if err := validateClientFilter(filter); err != nil {
		return nil, err
	}
	return cache.ReadList(ctx, r.cache, CollectionClients, clientFilterFields(filter), r.cfg.ListTTL,
		func(ctx context.Context) ([]insurance.Client, error) {
			return r.data.ListClients(ctx, filter, actorID)
		})
}

// MyProfile returns the profile of the client owned by userID, cached under
// its direct key.
func (r *ClientRepository) MyProfile(ctx context.Context, userID int) (*insurance.Client, error) {
	return cache.Lookup(ctx, r.cache, profileKey(userID), r.cfg.LookupTTL,
		func(ctx context.Context) (*insurance.Client, error) {
			c, err := r.data.ClientByUserID(ctx, userID)
			if err != nil {
				return nil, err
			}
			if c == nil {
				return nil, insurance.NotFound("client profile not found")
			}
			return c, nil
		})
}

// Create inserts a new client with its owning user and returns the client id.
// Every cached client list becomes stale, so the collection version bumps.
func (r *ClientRepository) Create(ctx context.Context, nc insurance.NewClient, actorID int) (int, error) {
	if err := validateNewClient(nc); err != nil {
		return 0, err
	}
	id, err := r.data.CreateClient(ctx, nc, actorID)
	if err != nil {
		return 0, err
	}
	r.flush(ctx, actorID, "create")
	return id, nil
}

// UpdateProfile applies a self-service profile update for userID.
func (r *ClientRepository) UpdateProfile(ctx context.Context, up insurance.ProfileUpdate, userID int) error {
	if err := validateProfileUpdate(up); err != nil {
		return err
	}
	if err := r.data.UpdateProfile(ctx, up, userID); err != nil {
		return err
	}
	r.flush(ctx, userID, "update-profile", profileKey(userID))
	return nil
}

// Update applies an admin-side client update. The owning user's cached
// profile is removed along with the list bump; the owner is resolved through
// the id mapping, and an unresolvable owner just narrows the flush to the
// bump.
func (r *ClientRepository) Update(ctx context.Context, uc insurance.ClientUpdate, actorID int) error {
	if err := validateClientUpdate(uc); err != nil {
		return err
	}
	if err := r.data.UpdateClient(ctx, uc, actorID); err != nil {
		return err
	}
	r.flush(ctx, actorID, "update", r.ownerProfileKeys(ctx, uc.ClientID)...)
	return nil
}

// Delete soft-deletes a client. The data layer rejects the deletion with a
// conflict while the client still holds active or cancel-requested policies.
func (r *ClientRepository) Delete(ctx context.Context, clientID, actorID int) error {
	if clientID <= 0 {
		return insurance.Validation("client id must be positive")
	}
	if err := r.data.SoftDeleteClient(ctx, clientID, actorID); err != nil {
		return err
	}
	r.flush(ctx, actorID, "delete", r.ownerProfileKeys(ctx, clientID)...)
	return nil
}

// ownerProfileKeys resolves the direct profile key of the user owning
// clientID. Resolution failures shrink the result to nothing; the version
// bump still retires the entry's list siblings and the profile entry itself
// decays by TTL.
func (r *ClientRepository) ownerProfileKeys(ctx context.Context, clientID int) []string {
	userID, err := r.resolver.UserIDByClientID(ctx, clientID)
	if err != nil || userID == 0 {
		return nil
	}
	return []string{profileKey(userID)}
}

// flush removes the given direct keys and bumps the "clients" version.
// Invalidation failures never surface to the caller: the mutation already
// committed, so the outcome is recorded and stale entries are left to expire.
func (r *ClientRepository) flush(ctx context.Context, actorID int, action string, directKeys ...string) {
	if err := r.invalidate.Invalidate(ctx, CollectionClients, directKeys...); err != nil {
		r.recorder.Record(ctx, Entry{
			UserID:  actorID,
			Module:  "clients",
			Action:  action,
			Message: "cache invalidation failed: " + err.Error(),
		})
	}
}
