package models

import (
	"slices"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Session is the client-held record of an authenticated identity. It is either
// fully populated or not held at all; an expired session counts as not held.
type Session struct {
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session's expiry has passed. A session without a
// recorded expiry never expires locally; the backend still rejects its token.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !s.ExpiresAt.After(now)
}

func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}
