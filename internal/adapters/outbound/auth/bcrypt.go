// Package auth checks the single operator credential configured for the
// counter.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// HashPassword returns a bcrypt hash suitable for auth.password_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(bytes), nil
}

// BcryptAuthenticator implements domain.Authenticator against a configured
// username and bcrypt hash.
type BcryptAuthenticator struct {
	cfg domain.AuthConfig
	now domain.Clock
}

func NewBcryptAuthenticator(cfg domain.AuthConfig, now domain.Clock) *BcryptAuthenticator {
	if now == nil {
		now = time.Now
	}
	return &BcryptAuthenticator{cfg: cfg, now: now}
}

// Login opens a session. With no credential configured every caller gets a
// local session.
func (a *BcryptAuthenticator) Login(username, password string) (domain.Session, error) {
	if !a.cfg.Enabled() {
		return domain.LocalSession(a.now()), nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return domain.Anonymous(), domain.ErrBadCredentials
	}
	return domain.NewSession(username, a.now()), nil
}
