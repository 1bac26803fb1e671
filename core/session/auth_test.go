package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/gateway"
	sessionstore "github.com/darasahq/darasa/storage/session"
	testutil "github.com/darasahq/darasa/tests"
)

func setup(t *testing.T) (*testutil.Backend, *session.Store, *session.Service) {
	t.Helper()
	backend := testutil.NewBackend()
	t.Cleanup(backend.Close)

	store := session.NewStore(sessionstore.NewInmemRepository())
	if err := store.Rehydrate(); err != nil {
		t.Fatalf("Rehydrate() failed: %v", err)
	}
	svc := session.NewService(backend.Client(store), store)
	return backend, store, svc
}

func TestService_Login(t *testing.T) {
	backend, store, svc := setup(t)

	usr, err := svc.Login(context.Background(), session.Credentials{
		Email:    testutil.Email,
		Password: testutil.Password,
	})
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	assert.Equal(t, "Jane Instructor", usr.FullName)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, backend.Token(), store.Token())
}

func TestService_LoginValidation(t *testing.T) {
	backend, store, svc := setup(t)

	tests := []struct {
		name  string
		creds session.Credentials
		field string
	}{
		{name: "missing email", creds: session.Credentials{Password: "pwd"}, field: "email"},
		{name: "malformed email", creds: session.Credentials{Email: "not-an-email", Password: "pwd"}, field: "email"},
		{name: "missing password", creds: session.Credentials{Email: "a@b.test"}, field: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.creds)
			var vErr *core.ValidationError
			if !assert.ErrorAs(t, err, &vErr) {
				t.Fatalf("Login() error = %v, want ValidationError", err)
			}
			if assert.NotEmpty(t, vErr.Fields) {
				assert.Equal(t, tt.field, vErr.Fields[0].Field)
			}
		})
	}
	// validation failures never reach the wire
	assert.Equal(t, 0, backend.RequestCount())
	assert.False(t, store.IsAuthenticated())
}

func TestService_LoginRejected(t *testing.T) {
	_, store, svc := setup(t)

	_, err := svc.Login(context.Background(), session.Credentials{
		Email:    testutil.Email,
		Password: "wrong",
	})
	var apiErr *gateway.APIError
	if !assert.ErrorAs(t, err, &apiErr) {
		t.Fatalf("Login() error = %v, want APIError", err)
	}
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestService_LoginThenLogout(t *testing.T) {
	_, store, svc := setup(t)

	if _, err := svc.Login(context.Background(), session.Credentials{
		Email:    testutil.Email,
		Password: testutil.Password,
	}); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	sess := store.Current()
	assert.False(t, sess.Authenticated)
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.User)
}
