// Package sessions holds the signed-in admin for one browser: the user and the
// access/refresh token pair, persisted to durable storage and mirrored into cookies.
package sessions

import (
	"github.com/secondbloom/admin-dashboard/users"
)

// Session is the persisted session state.
// Authenticated is true if and only if User, AccessToken and RefreshToken are all present.
type Session struct {
	User          *users.User `json:"user"`
	AccessToken   string      `json:"accessToken,omitempty"`
	RefreshToken  string      `json:"refreshToken,omitempty"`
	Authenticated bool        `json:"isAuthenticated"`
}

// newSession builds a session from its three parts and derives Authenticated.
func newSession(user *users.User, accessToken, refreshToken string) Session {
	if user == nil || accessToken == "" || refreshToken == "" {
		return Session{}
	}
	u := *user
	return Session{
		User:          &u,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Authenticated: true,
	}
}

// normalize re-derives the invariant on state read back from storage.
func (s Session) normalize() Session {
	return newSession(s.User, s.AccessToken, s.RefreshToken)
}

// clone returns a copy that shares no pointers with s
func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
