package domain

import (
	"errors"
	"time"
)

// ErrUnauthenticated is returned when a mutating operation runs without a
// logged-in session.
var ErrUnauthenticated = errors.New("login required")

// ErrBadCredentials is returned by an Authenticator on a failed login.
var ErrBadCredentials = errors.New("invalid username or password")

// Session is the operator session created at the composition root and
// passed explicitly to the inbound adapters.
type Session struct {
	Username  string    `json:"username,omitempty"`
	StartedAt time.Time `json:"started_at"`
	active    bool
}

// NewSession opens an authenticated session for username.
func NewSession(username string, at time.Time) Session {
	return Session{Username: username, StartedAt: at, active: true}
}

// LocalSession is used when no credentials are configured: the local
// operator is trusted.
func LocalSession(at time.Time) Session {
	return Session{Username: "local", StartedAt: at, active: true}
}

// Anonymous is the zero session.
func Anonymous() Session { return Session{} }

// Active reports whether the session may perform mutations.
func (s Session) Active() bool { return s.active }

// Require returns ErrUnauthenticated unless the session is active.
func (s Session) Require() error {
	if !s.active {
		return ErrUnauthenticated
	}
	return nil
}
