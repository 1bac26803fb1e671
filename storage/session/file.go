// Package sessionstore persists the session snapshot to durable client
// storage so authentication survives restarts.
package sessionstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/session"
)

type fileRepository struct {
	path string
}

var _ session.Repository = (*fileRepository)(nil) // interface compliance check

func NewFileRepository(path string) session.Repository {
	return &fileRepository{path: path}
}

// Save writes the snapshot via a temp file and rename so a crash mid-write
// never leaves a truncated session behind.
func (repo *fileRepository) Save(sess session.Session) error {
	if err := os.MkdirAll(filepath.Dir(repo.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	tmp := repo.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return errors.Wrap(os.Rename(tmp, repo.path), "replacing session file")
}

func (repo *fileRepository) Load() (session.Session, error) {
	data, err := os.ReadFile(repo.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, errors.Wrap(err, "reading session file")
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// a corrupt file is as good as no session
		return session.Session{}, session.ErrNoSession
	}
	return sess, nil
}

func (repo *fileRepository) Clear() error {
	if err := os.Remove(repo.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}

// RawToken reads the persisted token directly, bypassing the store; the
// gateway uses it as a fallback token source before the store has
// rehydrated.
func RawToken(path string) string {
	sess, err := (&fileRepository{path: path}).Load()
	if err != nil {
		return ""
	}
	return sess.Token
}
