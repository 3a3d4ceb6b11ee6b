package store

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/bazario/pkg/crypt"
	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/kvstore"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/notify"
)

// sessionKey is the kvstore key holding the encrypted session record.
const sessionKey = "session"

// Session is the persisted authentication state.
type Session struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// AuthAPI is the slice of the backend client the session store needs.
type AuthAPI interface {
	Logout(ctx context.Context) error
}

// SessionStore owns the current session. All reads answer from memory; the
// kvstore copy exists only to survive process restarts and is written through
// on every change.
//
// Until Hydrate runs, Authenticated reports false regardless of what is on
// disk — "not yet loaded" and "logged out" are distinct states and callers
// that care check Hydrated.
type SessionStore struct {
	mu       sync.RWMutex
	kv       kvstore.Store
	current  Session
	hydrated bool
}

// NewSessionStore builds an unhydrated store on top of kv.
func NewSessionStore(kv kvstore.Store) *SessionStore {
	return &SessionStore{kv: kv}
}

// Hydrate loads the persisted session synchronously. A missing record means a
// guest; a record that fails to decrypt is dropped rather than trusted. In
// every case the store ends up hydrated — hydration flips once and never
// reverts.
func (s *SessionStore) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return
	}
	s.hydrated = true

	raw, err := s.kv.Get(sessionKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	if err != nil {
		logger.Warn("session: read persisted record", "error", err)
		return
	}

	var sess Session
	if err := crypt.DecryptJSON(string(raw), &sess); err != nil {
		logger.Warn("session: persisted record is unreadable, discarding", "error", err)
		if err := s.kv.Delete(sessionKey); err != nil {
			logger.Warn("session: drop unreadable record", "error", err)
		}
		return
	}

	s.current = sess
}

// Hydrated reports whether Hydrate has run.
func (s *SessionStore) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Authenticated reports whether a token is present. Always false before
// hydration.
func (s *SessionStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated && s.current.Token != ""
}

// Current returns a copy of the session record.
func (s *SessionStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current bearer token, or "" for guests. This is the
// token source handed to the API client.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hydrated {
		return ""
	}
	return s.current.Token
}

// Role returns the current role, or "" for guests.
func (s *SessionStore) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Role
}

// SetAuth installs a fresh session after login or OTP verification and
// persists it encrypted. Setting auth marks the store hydrated: a session
// obtained in-process is authoritative no matter what is on disk.
func (s *SessionStore) SetAuth(sess Session) {
	s.mu.Lock()
	s.current = sess
	s.hydrated = true
	s.mu.Unlock()

	enc, err := crypt.EncryptJSON(sess)
	if err != nil {
		logger.Error("session: encrypt record", "error", err)
		return
	}
	if err := s.kv.Put(sessionKey, []byte(enc)); err != nil {
		logger.Error("session: persist record", "error", err)
	}
}

// ClearAuth drops the session locally: memory first, then the persisted copy.
// It never talks to the backend, so it is safe to call from the 401 hook and
// the watchdog.
func (s *SessionStore) ClearAuth() {
	s.mu.Lock()
	s.current = Session{}
	s.hydrated = true
	s.mu.Unlock()

	if err := s.kv.Delete(sessionKey); err != nil {
		logger.Warn("session: delete persisted record", "error", err)
	}
}

// Logout revokes the token on the backend, then clears locally. Remote
// revocation comes first and is not optimistic: if the backend cannot be
// reached the session stays, because clearing locally while the server still
// honours the token would strand a live credential.
func (s *SessionStore) Logout(ctx context.Context, api AuthAPI) error {
	if !s.Authenticated() {
		return nil
	}
	if err := api.Logout(ctx); err != nil {
		return err
	}
	s.ClearAuth()
	event.Fire(TopicLoggedOut, nil)
	return nil
}

// BindEvents subscribes the store to the global 401 signal. Any authenticated
// request bouncing means the token is dead server-side, so the local session
// is cleared and the user told once.
func (s *SessionStore) BindEvents() {
	event.Listen(TopicUnauthorized, func(interface{}) {
		if !s.Authenticated() {
			return
		}
		s.ClearAuth()
		notify.Warnf("your session is no longer valid, please log in again")
	})
}
