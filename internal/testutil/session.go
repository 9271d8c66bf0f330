package testutil

import (
	"time"

	"albumdex/internal/auth"
	"albumdex/internal/model"
)

// NewSession returns a session on FixedClock. With a non-empty role the
// session is already logged in as "<role>@example.com" for a day.
func NewSession(role model.Role) *auth.Session {
	clock := FixedClock()
	s := auth.NewSession(clock)
	if role != model.RoleNone {
		s.Begin(model.Identity{Username: string(role) + "@example.com", Role: role}, "", clock.Now().Add(24*time.Hour))
	}
	return s
}
