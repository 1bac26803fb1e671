package sessionstore

import (
	"sync"

	"github.com/darasahq/darasa/core/session"
)

type inmemRepository struct {
	mu   sync.Mutex
	sess *session.Session
}

var _ session.Repository = (*inmemRepository)(nil)

// NewInmemRepository returns a throwaway repository for tests.
func NewInmemRepository() session.Repository {
	return &inmemRepository{}
}

func (repo *inmemRepository) Save(sess session.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.sess = &sess
	return nil
}

func (repo *inmemRepository) Load() (session.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.sess == nil {
		return session.Session{}, session.ErrNoSession
	}
	return *repo.sess, nil
}

func (repo *inmemRepository) Clear() error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.sess = nil
	return nil
}
