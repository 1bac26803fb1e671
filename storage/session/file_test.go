package sessionstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core/session"
)

func TestFileRepository_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	repo := NewFileRepository(path)

	// nothing persisted yet
	_, err := repo.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	sess := session.Session{
		Token:         "tok123",
		User:          &session.Identity{ID: "u1", Email: "jane@darasa.test", Roles: []string{"instructor"}},
		Authenticated: true,
	}
	if err := repo.Save(sess); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	assert.Equal(t, sess.Token, got.Token)
	if assert.NotNil(t, got.User) {
		assert.Equal(t, "u1", got.User.ID)
		assert.Equal(t, []string{"instructor"}, got.User.Roles)
	}

	assert.Equal(t, "tok123", RawToken(path))

	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	_, err = repo.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Empty(t, RawToken(path))

	// clearing twice is fine
	assert.NoError(t, repo.Clear())
}

func TestFileRepository_corruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	repo := NewFileRepository(path)

	_, err := repo.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Empty(t, RawToken(path))
}

func TestFileRepository_permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	repo := NewFileRepository(path)
	if err := repo.Save(session.Session{Token: "t"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	// the token is a credential: owner-only access
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
