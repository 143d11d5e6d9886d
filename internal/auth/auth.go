// Package auth implements session-based authentication on top of the store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gu00col/ross-sub000/internal/store"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so login failures do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type Manager struct {
	store *store.Store
	ttl   time.Duration
}

func NewManager(s *store.Store, ttl time.Duration) *Manager {
	return &Manager{store: s, ttl: ttl}
}

// Login verifies the credentials and opens a new session, returning its
// token and expiry.
func (m *Manager) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := m.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	expires := time.Now().Add(m.ttl)
	if err := m.store.CreateSession(ctx, token, user.ID, expires); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// UserForToken resolves a session token. Unknown or expired tokens come
// back as store.ErrNotFound.
func (m *Manager) UserForToken(ctx context.Context, token string) (*store.User, error) {
	return m.store.SessionUser(ctx, token)
}

// Logout discards the session. Logging out an unknown token is a no-op.
func (m *Manager) Logout(ctx context.Context, token string) error {
	return m.store.DeleteSession(ctx, token)
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
