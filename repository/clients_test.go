package repository

import (
	"context"
	"testing"

	"github.com/goliatone/go-insurance-cache/insurance"
)

func TestClientListCachesSecondRead(t *testing.T) {
	env := newTestEnv()
	env.data.addClient(9)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out, err := env.clients.List(ctx, insurance.ClientFilter{Name: "test"}, 1)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("List() returned %d clients, want 1", len(out))
		}
	}
	if env.data.listClientCalls != 1 {
		t.Errorf("data hit %d times, want 1", env.data.listClientCalls)
	}
}

func TestClientListNormalizedFiltersShareOneEntry(t *testing.T) {
	env := newTestEnv()
	env.data.addClient(9)
	ctx := context.Background()

	if _, err := env.clients.List(ctx, insurance.ClientFilter{Name: "  LAURA  "}, 1); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if _, err := env.clients.List(ctx, insurance.ClientFilter{Name: "laura"}, 1); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if env.data.listClientCalls != 1 {
		t.Errorf("normalization-equal filters hit the data layer %d times, want 1", env.data.listClientCalls)
	}
}

func TestClientListRejectsMalformedFilter(t *testing.T) {
	env := newTestEnv()

	_, err := env.clients.List(context.Background(), insurance.ClientFilter{IdentificationNumber: "12ab"}, 1)
	if insurance.KindOf(err) != insurance.KindValidation {
		t.Errorf("List() error kind = %v, want validation", insurance.KindOf(err))
	}
	if env.data.listClientCalls != 0 {
		t.Error("malformed filter reached the data layer")
	}
}

func TestClientCreateRetiresCachedLists(t *testing.T) {
	env := newTestEnv()
	env.data.addClient(9)
	ctx := context.Background()

	if _, err := env.clients.List(ctx, insurance.ClientFilter{}, 1); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if _, err := env.clients.Create(ctx, insurance.NewClient{
		FirstName: "Diego",
		LastName:  "Ramos",
		Email:     "diego@example.com",
		Phone:     "5598765432",
		Password:  "long-enough-secret",
	}, 1); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	out, err := env.clients.List(ctx, insurance.ClientFilter{}, 1)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("post-create List() returned %d clients, want 2", len(out))
	}
	if env.data.listClientCalls != 2 {
		t.Errorf("data hit %d times, want 2 (create must retire the cached list)", env.data.listClientCalls)
	}
}

func TestClientCreateRejectsInvalidInput(t *testing.T) {
	env := newTestEnv()

	_, err := env.clients.Create(context.Background(), insurance.NewClient{
		FirstName: "Diego",
		Email:     "not-an-email",
		Phone:     "5598765432",
		Password:  "long-enough-secret",
	}, 1)
	if insurance.KindOf(err) != insurance.KindValidation {
		t.Errorf("Create() error kind = %v, want validation", insurance.KindOf(err))
	}
	if len(env.data.clients) != 0 {
		t.Error("invalid input reached the data layer")
	}
}

func TestMyProfileCachesAndUpdateRemoves(t *testing.T) {
	env := newTestEnv()
	env.data.addClient(9)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := env.clients.MyProfile(ctx, 9)
		if err != nil {
			t.Fatalf("MyProfile() error: %v", err)
		}
		if p.UserID != 9 {
			t.Fatalf("MyProfile() = %+v", p)
		}
	}
	if env.data.profileCalls != 1 {
		t.Fatalf("data hit %d times, want 1", env.data.profileCalls)
	}

	if err := env.clients.UpdateProfile(ctx, insurance.ProfileUpdate{Phone: "5500000000"}, 9); err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}

	p, err := env.clients.MyProfile(ctx, 9)
	if err != nil {
		t.Fatalf("MyProfile() error: %v", err)
	}
	if p.Phone != "5500000000" {
		t.Errorf("post-update profile served stale phone %q", p.Phone)
	}
	if env.data.profileCalls != 2 {
		t.Errorf("data hit %d times, want 2 (update must remove the profile entry)", env.data.profileCalls)
	}
}

func TestMyProfileMissingIsNotCached(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, err := env.clients.MyProfile(ctx, 9); insurance.KindOf(err) != insurance.KindNotFound {
		t.Fatalf("MyProfile() error kind = %v, want not found", insurance.KindOf(err))
	}

	// The profile appears: the earlier miss must not shadow it.
	env.data.addClient(9)
	p, err := env.clients.MyProfile(ctx, 9)
	if err != nil {
		t.Fatalf("MyProfile() error: %v", err)
	}
	if p == nil || p.UserID != 9 {
		t.Errorf("MyProfile() = %+v after the client appeared", p)
	}
}

func TestAdminUpdateRemovesOwnerProfile(t *testing.T) {
	env := newTestEnv()
	clientID := env.data.addClient(9)
	ctx := context.Background()

	if _, err := env.clients.MyProfile(ctx, 9); err != nil {
		t.Fatalf("MyProfile() error: %v", err)
	}

	err := env.clients.Update(ctx, insurance.ClientUpdate{
		ClientID:  clientID,
		FirstName: "Laura",
		LastName:  "Mendoza",
		Phone:     "5511111111",
	}, 1)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	p, err := env.clients.MyProfile(ctx, 9)
	if err != nil {
		t.Fatalf("MyProfile() error: %v", err)
	}
	if p.Phone != "5511111111" {
		t.Errorf("admin update left stale profile phone %q", p.Phone)
	}
}

func TestClientDeleteConflictLeavesCacheAlone(t *testing.T) {
	env := newTestEnv()
	clientID := env.data.addClient(9)
	env.data.deleteConflict = true
	ctx := context.Background()

	if _, err := env.clients.List(ctx, insurance.ClientFilter{}, 1); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	err := env.clients.Delete(ctx, clientID, 1)
	if insurance.KindOf(err) != insurance.KindConflict {
		t.Fatalf("Delete() error kind = %v, want conflict", insurance.KindOf(err))
	}

	// The rejected mutation must not have invalidated anything: the cached
	// list still accurately reflects the source of truth.
	if _, err := env.clients.List(ctx, insurance.ClientFilter{}, 1); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if env.data.listClientCalls != 1 {
		t.Errorf("data hit %d times, want 1 (failed delete must not invalidate)", env.data.listClientCalls)
	}
}

func TestClientMutationRecordsInvalidationFailure(t *testing.T) {
	env := newTestEnv()
	env.data.addClient(9)
	ctx := context.Background()

	env.store.failAll = true
	if err := env.clients.UpdateProfile(ctx, insurance.ProfileUpdate{Phone: "5500000000"}, 9); err != nil {
		t.Fatalf("UpdateProfile() must not fail on cache trouble, got: %v", err)
	}

	if len(env.recorder.entries) != 1 {
		t.Fatalf("recorder got %d entries, want 1", len(env.recorder.entries))
	}
	e := env.recorder.entries[0]
	if e.Module != "clients" || e.Action != "update-profile" || e.UserID != 9 {
		t.Errorf("recorded entry = %+v", e)
	}
}
