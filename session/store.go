package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventageous/core"
	"eventageous/pkg/crypto"
)

const DefaultTTL = 30 * time.Minute

// Config configures the session store.
type Config struct {
	// TTL is the inactivity window: sessions expire this long after their
	// last access.
	TTL time.Duration
}

// Store is the volatile, process-local session store. Sessions are keyed by
// the sha256 of the opaque cookie handle, so raw handles never sit in memory
// as map keys. There is no cross-process or restart durability; that is an
// accepted limitation, not a defect.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	ttl      time.Duration
}

var _ core.SessionStore = (*Store)(nil)

func NewStore(cfg Config) *Store {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*core.Session),
		ttl:      cfg.TTL,
	}
}

// Create allocates a fresh, unauthenticated session and returns its handle.
func (s *Store) Create() (string, *core.Session, error) {
	handle, err := crypto.GenerateToken(crypto.DefaultTokenLength)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session handle: %w", err)
	}

	now := time.Now()
	session := &core.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[crypto.HashToken(handle)] = session

	return handle, session, nil
}

// Get returns the session for a handle and slides its inactivity deadline.
// Expired sessions are dropped on access.
func (s *Store) Get(handle string) (*core.Session, error) {
	if handle == "" {
		return nil, core.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(crypto.HashToken(handle))
}

// SetAuthState stores the pending CSRF state for an in-flight login attempt,
// replacing any previous one.
func (s *Store) SetAuthState(handle, state string) error {
	if handle == "" {
		return core.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(crypto.HashToken(handle))
	if err != nil {
		return err
	}
	session.AuthState = state
	return nil
}

// TakeAuthState returns the pending CSRF state and clears it, so the same
// state can never validate twice.
func (s *Store) TakeAuthState(handle string) (string, bool) {
	if handle == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(crypto.HashToken(handle))
	if err != nil {
		return "", false
	}

	state := session.AuthState
	session.AuthState = ""
	return state, state != ""
}

// Commit records the authenticated user on the session. Idempotent overwrite;
// any leftover login state is discarded.
func (s *Store) Commit(handle string, user *core.User) error {
	if handle == "" {
		return core.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(crypto.HashToken(handle))
	if err != nil {
		return err
	}
	session.User = user
	session.AuthState = ""
	return nil
}

func (s *Store) Delete(handle string) error {
	if handle == "" {
		return core.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, crypto.HashToken(handle))
	return nil
}

// IsAuthenticated reports whether an authenticated record is present under
// the session's storage key.
func (s *Store) IsAuthenticated(handle string) bool {
	session, err := s.Get(handle)
	return err == nil && session.User != nil
}

// AuthenticatedEmail returns the stored email, if any.
func (s *Store) AuthenticatedEmail(handle string) (string, bool) {
	session, err := s.Get(handle)
	if err != nil || session.User == nil {
		return "", false
	}
	return session.User.Email, true
}

// PurgeExpired removes sessions past their inactivity deadline and returns
// how many were dropped. Expiry is also enforced lazily on access; this sweep
// keeps abandoned sessions from accumulating.
func (s *Store) PurgeExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, key)
			count++
		}
	}
	return count
}

// Len returns the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// lookupLocked finds a session by storage key, enforcing and sliding the
// inactivity deadline. Caller must hold the write lock.
func (s *Store) lookupLocked(key string) (*core.Session, error) {
	session, ok := s.sessions[key]
	if !ok {
		return nil, core.ErrSessionNotFound
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		delete(s.sessions, key)
		return nil, core.ErrSessionExpired
	}

	session.ExpiresAt = now.Add(s.ttl)
	session.UpdatedAt = now
	return session, nil
}
