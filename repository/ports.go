package repository

import (
	"context"

	"github.com/goliatone/go-insurance-cache/insurance"
)

// The data-access ports are the source of truth behind the cache. They return
// domain rows or a domain error (insurance.Error); the reference
// implementation over bun/SQLite lives in internal/datainfra.

// ClientData executes client queries and mutations.
type ClientData interface {
	ListClients(ctx context.Context, filter insurance.ClientFilter, actorID int) ([]insurance.Client, error)
	ClientByUserID(ctx context.Context, userID int) (*insurance.Client, error)
	CreateClient(ctx context.Context, nc insurance.NewClient, actorID int) (int, error)
	UpdateProfile(ctx context.Context, up insurance.ProfileUpdate, userID int) error
	UpdateClient(ctx context.Context, uc insurance.ClientUpdate, actorID int) error
	// SoftDeleteClient flags the client deleted. It rejects with a conflict
	// error when the client still has policies in Active or CancelRequested
	// status; the caching layer consumes that invariant, it does not enforce
	// it.
	SoftDeleteClient(ctx context.Context, clientID, actorID int) error
}

// PolicyData executes policy queries and mutations.
type PolicyData interface {
	Resolver

	ListPolicies(ctx context.Context, filter insurance.PolicyFilter, actorID int) ([]insurance.Policy, error)
	PoliciesByClient(ctx context.Context, clientID int, activeOnly bool) ([]insurance.Policy, error)
	PoliciesByUser(ctx context.Context, userID int) ([]insurance.Policy, error)
	PolicyByID(ctx context.Context, policyID int) (*insurance.Policy, error)
	CreatePolicy(ctx context.Context, np insurance.NewPolicy, actorID int) (*insurance.Policy, error)
	// SetPolicyStatus persists a lifecycle transition already validated by
	// the state machine.
	SetPolicyStatus(ctx context.Context, policyID int, status insurance.PolicyStatus, actorID int) error
}

// Resolver maps between the identifiers the invalidation mapping needs:
// Policy -> Client -> User. A zero id with a nil error means "not found".
type Resolver interface {
	UserIDByClientID(ctx context.Context, clientID int) (int, error)
	ClientIDByUserID(ctx context.Context, userID int) (int, error)
	ClientIDByPolicyID(ctx context.Context, policyID int) (int, error)
}

// CatalogData reads the static catalogs.
type CatalogData interface {
	States(ctx context.Context) ([]insurance.State, error)
	PolicyTypes(ctx context.Context) ([]insurance.PolicyType, error)
	PolicyStatuses(ctx context.Context) ([]insurance.StatusDescriptor, error)
}

// UserData executes user mutations.
type UserData interface {
	CreateUser(ctx context.Context, nu insurance.NewUser, actorID int) (int, error)
}

// Entry is one audit record handed to the failure recorder.
type Entry struct {
	UserID  int
	Module  string
	Action  string
	Message string
}

// Recorder persists failure entries. Implementations are best effort: Record
// never returns an error and must never block a response on the sink.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// NopRecorder discards every entry.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Entry) {}
