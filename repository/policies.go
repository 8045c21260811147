package repository

import (
	"context"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/insurance"
)

// PolicyRepository serves policy queries through the cache and drives the
// lifecycle state machine. Filtered lists ride the versioned "policies"
// collection; the my-policies and by-client views ride direct keys removed on
// every mutation that touches their owner.
type PolicyRepository struct {
	data       PolicyData
	cache      *cache.ReadThrough
	invalidate *cache.Coordinator
	recorder   Recorder
	cfg        cache.Config
}

// NewPolicyRepository wires a policy repository. A nil recorder degrades to
// NopRecorder.
func NewPolicyRepository(
	data PolicyData,
	rt *cache.ReadThrough,
	inv *cache.Coordinator,
	recorder Recorder,
	cfg cache.Config,
) *PolicyRepository {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &PolicyRepository{
		data:       data,
		cache:      rt,
		invalidate: inv,
		recorder:   recorder,
		cfg:        cfg,
	}
}

// List returns the policies matching the filter, cached per filter
// fingerprint under the current "policies" version.
func (r *PolicyRepository) List(ctx context.Context, filter insurance.PolicyFilter, actorID int) ([]insurance.Policy, error) {
	return cache.ReadList(ctx, r.cache, CollectionPolicies, policyFilterFields(filter), r.cfg.ListTTL,
		func(ctx context.Context) ([]insurance.Policy, error) {
			return r.data.ListPolicies(ctx, filter, actorID)
		})
}

// Mine returns the policies owned by the client behind userID, cached under
// the user's direct key.
func (r *PolicyRepository) Mine(ctx context.Context, userID int) ([]insurance.Policy, error) {
	return cache.Lookup(ctx, r.cache, myPoliciesKey(userID), r.cfg.LookupTTL,
		func(ctx context.Context) ([]insurance.Policy, error) {
			return r.data.PoliciesByUser(ctx, userID)
		})
}

// ByClient returns every policy of a client regardless of status.
func (r *PolicyRepository) ByClient(ctx context.Context, clientID int) ([]insurance.Policy, error) {
	return cache.Lookup(ctx, r.cache, byClientKey(clientID), r.cfg.LookupTTL,
		func(ctx context.Context) ([]insurance.Policy, error) {
			return r.data.PoliciesByClient(ctx, clientID, false)
		})
}

// ActiveByClient returns the client's policies still in Active status.
func (r *PolicyRepository) ActiveByClient(ctx context.Context, clientID int) ([]insurance.Policy, error) {
	return cache.Lookup(ctx, r.cache, byClientActiveKey(clientID), r.cfg.LookupTTL,
		func(ctx context.Context) ([]insurance.Policy, error) {
			return r.data.PoliciesByClient(ctx, clientID, true)
		})
}

// ByID returns a single policy straight from the source of truth. Single-row
// reads are cheap and feed lifecycle decisions, so they bypass the cache.
func (r *PolicyRepository) ByID(ctx context.Context, policyID int) (*insurance.Policy, error) {
	if policyID <= 0 {
		return nil, insurance.Validation("policy id must be positive")
	}
	p, err := r.data.PolicyByID(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, insurance.NotFound("policy not found")
	}
	return p, nil
}

// Create inserts a policy in Active status and retires every cached view that
// could now be stale: the owner's direct keys by exact removal and the
// filtered lists by version bump.
func (r *PolicyRepository) Create(ctx context.Context, np insurance.NewPolicy, actorID int) (*insurance.Policy, error) {
	if err := validateNewPolicy(np); err != nil {
		return nil, err
	}
	p, err := r.data.CreatePolicy(ctx, np, actorID)
	if err != nil {
		return nil, err
	}
	r.flush(ctx, actorID, "create", r.ownerKeys(ctx, p.ClientID)...)
	return p, nil
}

// RequestCancel moves a policy to CancelRequested on behalf of the user
// asking for it. The acting user's client is resolved first; the state
// machine then checks ownership before the current status.
func (r *PolicyRepository) RequestCancel(ctx context.Context, policyID, actingUserID int) (*insurance.Policy, error) {
	if policyID <= 0 {
		return nil, insurance.Validation("policy id must be positive")
	}
	clientID, err := r.data.ClientIDByUserID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if clientID == 0 {
		return nil, insurance.NotFound("no client found for the requesting user")
	}

	p, err := r.ByID(ctx, policyID)
	if err != nil {
		return nil, err
	}
	updated, err := insurance.RequestCancel(*p, clientID)
	if err != nil {
		return nil, err
	}
	if err := r.data.SetPolicyStatus(ctx, policyID, updated.Status, actingUserID); err != nil {
		return nil, err
	}

	r.flush(ctx, actingUserID, "request-cancel",
		myPoliciesKey(actingUserID),
		byClientKey(clientID),
		byClientActiveKey(clientID),
	)
	return &updated, nil
}

// ApproveCancel moves a CancelRequested policy to Cancelled on behalf of a
// back-office actor.
func (r *PolicyRepository) ApproveCancel(ctx context.Context, policyID, actorID int) (*insurance.Policy, error) {
	p, err := r.ByID(ctx, policyID)
	if err != nil {
		return nil, err
	}
	updated, err := insurance.ApproveCancel(*p)
	if err != nil {
		return nil, err
	}
	if err := r.data.SetPolicyStatus(ctx, policyID, updated.Status, actorID); err != nil {
		return nil, err
	}

	r.flush(ctx, actorID, "approve-cancel", r.ownerKeys(ctx, p.ClientID)...)
	return &updated, nil
}

// ownerKeys collects the direct keys addressing clientID's cached policy
// views: both by-client variants plus the owning user's my-policies entry.
// Resolution failures drop only the my-policies key; the remaining removals
// and the version bump still happen.
func (r *PolicyRepository) ownerKeys(ctx context.Context, clientID int) []string {
	keys := []string{byClientKey(clientID), byClientActiveKey(clientID)}
	userID, err := r.data.UserIDByClientID(ctx, clientID)
	if err == nil && userID != 0 {
		keys = append(keys, myPoliciesKey(userID))
	}
	return keys
}

// flush removes the given direct keys and bumps the "policies" version.
// Invalidation failures never surface: the mutation already committed, so
// the outcome is recorded and stale entries are left to expire.
func (r *PolicyRepository) flush(ctx context.Context, actorID int, action string, directKeys ...string) {
	if err := r.invalidate.Invalidate(ctx, CollectionPolicies, directKeys...); err != nil {
		r.recorder.Record(ctx, Entry{
			UserID:  actorID,
			Module:  "policies",
			Action:  action,
			Message: "cache invalidation failed: " + err.Error(),
		})
	}
}
