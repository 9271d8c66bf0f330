package auth

import (
	"sync"
	"time"

	"albumdex/internal/catalog"
	"albumdex/internal/model"
)

// Session holds the logged-in identity. It is either anonymous or
// authenticated; an authenticated session whose expiry has passed reads as
// anonymous.
type Session struct {
	mu        sync.RWMutex
	identity  *model.Identity
	token     string
	expiresAt time.Time
	clock     catalog.Clock
}

var _ catalog.Authorizer = (*Session)(nil)

// NewSession creates an anonymous session.
func NewSession(clock catalog.Clock) *Session {
	if clock == nil {
		clock = catalog.RealClock{}
	}
	return &Session{clock: clock}
}

// Identity returns the logged-in user, or false when anonymous.
func (s *Session) Identity() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.activeLocked() {
		return model.Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Identity()
	return ok
}

// Can reports whether the logged-in user holds perm. Anonymous sessions
// hold nothing.
func (s *Session) Can(perm model.Permission) bool {
	id, ok := s.Identity()
	if !ok {
		return false
	}
	return RoleAllows(id.Role, perm)
}

// Token returns the bearer token and its expiry. Both are zero for
// credential stores that do not issue tokens.
func (s *Session) Token() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.expiresAt
}

// Begin moves the session to authenticated.
func (s *Session) Begin(id model.Identity, token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &id
	s.token = token
	s.expiresAt = expiresAt
}

// Clear moves the session to anonymous.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.token = ""
	s.expiresAt = time.Time{}
}

func (s *Session) activeLocked() bool {
	if s.identity == nil {
		return false
	}
	return s.expiresAt.IsZero() || s.clock.Now().Before(s.expiresAt)
}
