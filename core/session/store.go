package session

import (
	"errors"
	"sync"
)

// ErrNoSession is returned by Repository.Load when no session has been persisted.
var ErrNoSession = errors.New("no persisted session")

type (
	// Repository persists the session snapshot across process restarts.
	Repository interface {
		Save(Session) error
		Load() (Session, error)
		Clear() error
	}

	// Store holds the process-wide authentication state. Token and identity
	// are always set and cleared together; no partial state is observable.
	Store struct {
		mu      sync.RWMutex
		repo    Repository
		current Session
		loading bool
	}
)

func NewStore(repo Repository) *Store {
	return &Store{repo: repo, loading: true}
}

// Rehydrate loads the persisted session, dropping it when the token has
// expired. It always ends with the loading flag cleared, exactly once.
func (s *Store) Rehydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.loading = false }()

	sess, err := s.repo.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}
	if !sess.valid() || tokenExpired(sess.Token) {
		_ = s.repo.Clear()
		return nil
	}
	sess.Authenticated = true
	s.current = sess
	return nil
}

// Login sets token, identity and the authenticated flag as one atomic update
// and persists the result.
func (s *Store) Login(resp LoginResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	usr := resp.User
	s.current = Session{Token: resp.Token, User: &usr, Authenticated: true}
	return s.repo.Save(s.current)
}

// Logout clears token, identity and the authenticated flag atomically.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	return s.repo.Clear()
}

// IsLoading reports whether rehydration is still pending. Consumers must not
// treat the store as "logged out" while this is true.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Current returns a copy of the session snapshot.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.current
	if s.current.User != nil {
		usr := *s.current.User
		sess.User = &usr
	}
	return sess
}

// Roles returns the identity's role tags, nil when logged out.
func (s *Store) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current.User == nil {
		return nil
	}
	return append([]string(nil), s.current.User.Roles...)
}
