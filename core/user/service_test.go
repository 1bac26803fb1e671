package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func setup(t *testing.T) (*testutil.Backend, *user.Service) {
	t.Helper()
	backend := testutil.NewBackend()
	t.Cleanup(backend.Close)
	backend.Users = []user.User{
		{ID: "u1", FullName: "Jane Instructor", Email: "jane@darasa.test", Status: user.StatusActive, Roles: []string{"instructor"}},
		{ID: "u2", FullName: "Ada Admin", Email: "ada@darasa.test", Status: user.StatusActive, Roles: []string{"admin"}},
		{ID: "u3", FullName: "Sam Student", Email: "sam@darasa.test", Status: user.StatusPending, Roles: []string{"student"}},
	}
	svc := user.NewService(backend.Client(testutil.StaticToken(backend.Token())), cache.New())
	return backend, svc
}

func TestService_List(t *testing.T) {
	backend, svc := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  user.ListFilter
		wantIDs []string
	}{
		{name: "no filter", filter: user.ListFilter{}, wantIDs: []string{"u1", "u2", "u3"}},
		{name: "search by name", filter: user.ListFilter{Search: "ada"}, wantIDs: []string{"u2"}},
		{name: "search by email", filter: user.ListFilter{Search: "sam@"}, wantIDs: []string{"u3"}},
		{name: "filter by role", filter: user.ListFilter{Role: "student"}, wantIDs: []string{"u3"}},
		{name: "filter by status", filter: user.ListFilter{Status: user.StatusPending}, wantIDs: []string{"u3"}},
		{name: "role and status", filter: user.ListFilter{Role: "instructor", Status: user.StatusActive}, wantIDs: []string{"u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			ids := make([]string, 0, len(res.Data))
			for _, usr := range res.Data {
				ids = append(ids, usr.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}

	// distinct filters are distinct cache entries; same filter is cached
	before := backend.RequestCount("GET /users")
	if _, err := svc.List(ctx, user.ListFilter{Search: "ada"}); err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	assert.Equal(t, before, backend.RequestCount("GET /users"))
}

func TestService_UpdateValidatesLocally(t *testing.T) {
	backend, svc := setup(t)
	before := backend.RequestCount()

	err := svc.Update(context.Background(), "u3", user.UpdateUser{Status: "SUSPENDED"})
	var vErr *core.ValidationError
	if !assert.ErrorAs(t, err, &vErr) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}
	assert.Equal(t, before, backend.RequestCount(), "invalid status must not reach the wire")

	err = svc.Update(context.Background(), "u3", user.UpdateUser{Roles: []string{"superuser"}})
	assert.ErrorAs(t, err, &vErr, "unknown role tags are rejected")
}

func TestService_UpdateStatus(t *testing.T) {
	backend, svc := setup(t)
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, "u3", user.StatusBanned); err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	assert.Equal(t, user.StatusBanned, backend.Users[2].Status)

	// list cache is flushed after the mutation
	res, err := svc.List(ctx, user.ListFilter{Status: user.StatusBanned})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	assert.Len(t, res.Data, 1)
}

func TestService_UpdateRoles(t *testing.T) {
	backend, svc := setup(t)

	err := svc.Update(context.Background(), "u3", user.UpdateUser{Roles: []string{"student", "instructor"}})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, []string{"student", "instructor"}, backend.Users[2].Roles)
}

func TestService_Delete(t *testing.T) {
	backend, svc := setup(t)
	ctx := context.Background()

	if err := svc.Delete(ctx, "u3"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	assert.Len(t, backend.Users, 2)

	assert.ErrorIs(t, svc.Delete(ctx, "u3"), user.ErrNotFound)
}
