package repository

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-insurance-cache/cache"
	"github.com/goliatone/go-insurance-cache/insurance"
)

// fakeStore is an in-memory cache.CounterStore with call counting, so tests
// can assert which paths touched the cache.
type fakeStore struct {
	entries  map[string][]byte
	counters map[string]int64

	setCalls    int
	removeCalls int

	failAll bool
}

var errStoreDown = errors.New("store unavailable")

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:  make(map[string][]byte),
		counters: make(map[string]int64),
	}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.failAll {
		return nil, false, errStoreDown
	}
	data, ok := s.entries[key]
	return data, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.failAll {
		return errStoreDown
	}
	s.setCalls++
	s.entries[key] = value
	return nil
}

func (s *fakeStore) Remove(_ context.Context, keys ...string) error {
	s.removeCalls++
	if s.failAll {
		return errStoreDown
	}
	for _, k := range keys {
		delete(s.entries, k)
		delete(s.counters, k)
	}
	return nil
}

func (s *fakeStore) IncrBy(_ context.Context, key string, delta int64, _ time.Duration) (int64, error) {
	if s.failAll {
		return 0, errStoreDown
	}
	s.counters[key] += delta
	return s.counters[key], nil
}

// fakeData is an in-memory source of truth implementing every data port,
// with call counting on the read paths the cache is supposed to absorb.
type fakeData struct {
	clients  map[int]*insurance.Client
	policies map[int]*insurance.Policy

	nextClientID int
	nextPolicyID int
	nextUserID   int

	listClientCalls int
	profileCalls    int
	listPolicyCalls int
	mineCalls       int
	byClientCalls   int
	catalogCalls    int
	setStatusCalls  int

	deleteConflict bool
	createUserErr  error
}

func newFakeData() *fakeData {
	return &fakeData{
		clients:      make(map[int]*insurance.Client),
		policies:     make(map[int]*insurance.Policy),
		nextClientID: 1,
		nextPolicyID: 1,
		nextUserID:   100,
	}
}

func (d *fakeData) addClient(userID int) int {
	id := d.nextClientID
	d.nextClientID++
	d.clients[id] = &insurance.Client{
		ClientID: id,
		UserID:   userID,
		FullName: "Test Client",
		Email:    "client@example.com",
		Phone:    "5512345678",
	}
	return id
}

func (d *fakeData) addPolicy(clientID int, status insurance.PolicyStatus) int {
	id := d.nextPolicyID
	d.nextPolicyID++
	d.policies[id] = &insurance.Policy{
		PolicyID:      id,
		ClientID:      clientID,
		PolicyTypeID:  1,
		Status:        status,
		InsuredAmount: 1000,
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return id
}

func (d *fakeData) ListClients(_ context.Context, _ insurance.ClientFilter, _ int) ([]insurance.Client, error) {
	d.listClientCalls++
	out := make([]insurance.Client, 0, len(d.clients))
	for _, c := range d.clients {
		if !c.Deleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (d *fakeData) ClientByUserID(_ context.Context, userID int) (*insurance.Client, error) {
	d.profileCalls++
	for _, c := range d.clients {
		if c.UserID == userID && !c.Deleted {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (d *fakeData) CreateClient(_ context.Context, _ insurance.NewClient, _ int) (int, error) {
	userID := d.nextUserID
	d.nextUserID++
	return d.addClient(userID), nil
}

func (d *fakeData) UpdateProfile(_ context.Context, up insurance.ProfileUpdate, userID int) error {
	for _, c := range d.clients {
		if c.UserID == userID && !c.Deleted {
			c.Phone = up.Phone
			return nil
		}
	}
	return insurance.NotFound("client profile not found")
}

func (d *fakeData) UpdateClient(_ context.Context, uc insurance.ClientUpdate, _ int) error {
	c, ok := d.clients[uc.ClientID]
	if !ok || c.Deleted {
		return insurance.NotFound("client not found")
	}
	c.Phone = uc.Phone
	return nil
}

func (d *fakeData) SoftDeleteClient(_ context.Context, clientID, _ int) error {
	if d.deleteConflict {
		return insurance.Conflict("client still has active or cancel-requested policies")
	}
	c, ok := d.clients[clientID]
	if !ok || c.Deleted {
		return insurance.NotFound("client not found")
	}
	c.Deleted = true
	return nil
}

func (d *fakeData) ListPolicies(_ context.Context, _ insurance.PolicyFilter, _ int) ([]insurance.Policy, error) {
	d.listPolicyCalls++
	out := make([]insurance.Policy, 0, len(d.policies))
	for _, p := range d.policies {
		if !p.Deleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (d *fakeData) PoliciesByClient(_ context.Context, clientID int, activeOnly bool) ([]insurance.Policy, error) {
	d.byClientCalls++
	var out []insurance.Policy
	for _, p := range d.policies {
		if p.ClientID != clientID || p.Deleted {
			continue
		}
		if activeOnly && p.Status != insurance.StatusActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (d *fakeData) PoliciesByUser(ctx context.Context, userID int) ([]insurance.Policy, error) {
	d.mineCalls++
	clientID, _ := d.ClientIDByUserID(ctx, userID)
	var out []insurance.Policy
	for _, p := range d.policies {
		if p.ClientID == clientID && !p.Deleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (d *fakeData) PolicyByID(_ context.Context, policyID int) (*insurance.Policy, error) {
	p, ok := d.policies[policyID]
	if !ok || p.Deleted {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (d *fakeData) CreatePolicy(_ context.Context, np insurance.NewPolicy, _ int) (*insurance.Policy, error) {
	id := d.nextPolicyID
	d.nextPolicyID++
	d.policies[id] = &insurance.Policy{
		PolicyID:      id,
		ClientID:      np.ClientID,
		PolicyTypeID:  np.PolicyTypeID,
		Status:        insurance.StatusActive,
		StartDate:     np.StartDate,
		EndDate:       np.EndDate,
		InsuredAmount: np.InsuredAmount,
	}
	cp := *d.policies[id]
	return &cp, nil
}

func (d *fakeData) SetPolicyStatus(_ context.Context, policyID int, status insurance.PolicyStatus, _ int) error {
	d.setStatusCalls++
	p, ok := d.policies[policyID]
	if !ok || p.Deleted {
		return insurance.NotFound("policy not found")
	}
	p.Status = status
	return nil
}

func (d *fakeData) UserIDByClientID(_ context.Context, clientID int) (int, error) {
	if c, ok := d.clients[clientID]; ok {
		return c.UserID, nil
	}
	return 0, nil
}

func (d *fakeData) ClientIDByUserID(_ context.Context, userID int) (int, error) {
	for _, c := range d.clients {
		if c.UserID == userID && !c.Deleted {
			return c.ClientID, nil
		}
	}
	return 0, nil
}

func (d *fakeData) ClientIDByPolicyID(_ context.Context, policyID int) (int, error) {
	if p, ok := d.policies[policyID]; ok {
		return p.ClientID, nil
	}
	return 0, nil
}

func (d *fakeData) States(_ context.Context) ([]insurance.State, error) {
	d.catalogCalls++
	return []insurance.State{{Code: "CMX", Name: "Ciudad de Mexico"}}, nil
}

func (d *fakeData) PolicyTypes(_ context.Context) ([]insurance.PolicyType, error) {
	d.catalogCalls++
	return []insurance.PolicyType{{PolicyTypeID: 1, Name: "Auto"}}, nil
}

func (d *fakeData) PolicyStatuses(_ context.Context) ([]insurance.StatusDescriptor, error) {
	d.catalogCalls++
	return []insurance.StatusDescriptor{
		{ID: insurance.StatusActive, Name: "Active"},
		{ID: insurance.StatusCancelled, Name: "Cancelled"},
		{ID: insurance.StatusCancelRequested, Name: "Cancellation requested"},
	}, nil
}

func (d *fakeData) CreateUser(_ context.Context, _ insurance.NewUser, _ int) (int, error) {
	if d.createUserErr != nil {
		return 0, d.createUserErr
	}
	id := d.nextUserID
	d.nextUserID++
	return id, nil
}

// fakeRecorder captures entries for assertions.
type fakeRecorder struct {
	entries []Entry
}

func (r *fakeRecorder) Record(_ context.Context, e Entry) {
	r.entries = append(r.entries, e)
}

// testEnv wires the repositories over the fakes the way the DI container does
// in production.
type testEnv struct {
	store    *fakeStore
	data     *fakeData
	recorder *fakeRecorder
	clients  *ClientRepository
	policies *PolicyRepository
	catalogs *CatalogRepository
	users    *UserRepository
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	data := newFakeData()
	recorder := &fakeRecorder{}
	cfg := cache.DefaultConfig()

	versions := cache.NewVersionCounter(store, cfg.VersionTTL)
	rt := cache.NewReadThrough(store, versions, cache.NewKeyBuilder())
	inv := cache.NewCoordinator(store, versions)

	return &testEnv{
		store:    store,
		data:     data,
		recorder: recorder,
		clients:  NewClientRepository(data, data, rt, inv, recorder, cfg),
		policies: NewPolicyRepository(data, rt, inv, recorder, cfg),
		catalogs: NewCatalogRepository(data, rt, cfg),
		users:    NewUserRepository(data, recorder),
	}
}
