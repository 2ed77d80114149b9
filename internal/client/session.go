package client

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/auth"
)

// RestorePolicy decides what a stored token means at startup.
type RestorePolicy int

const (
	// RequireLogin shows the login panel until the user logs in again,
	// even if a token is stored.
	RequireLogin RestorePolicy = iota
	// RestoreFromToken opens the dashboard when a token is stored.
	RestoreFromToken
)

// PolicyFromConfig maps the Client.RestoreSession switch to a policy.
func PolicyFromConfig(restore bool) RestorePolicy {
	if restore {
		return RestoreFromToken
	}

	return RequireLogin
}

// Session is the credential context passed to every API call.
// Token and user are durable, the authenticated flag is not.
type Session struct {
	mu            sync.RWMutex
	store         DurableStore
	policy        RestorePolicy
	token         string
	user          auth.User
	authenticated bool
}

// NewSession loads the token and user from store.
func NewSession(store DurableStore, policy RestorePolicy) (*Session, error) {
	s := &Session{store: store, policy: policy}

	token, err := store.Get(KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	s.token = token

	rawUser, err := store.Get(KeyUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if rawUser != "" {
		if err = json.Unmarshal([]byte(rawUser), &s.user); err != nil {
			log.Warn().Err(err).Msg("ignoring unreadable stored user")
		}
	}

	return s, nil
}

// Token returns the bearer token or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// User returns the stored user descriptor.
func (s *Session) User() auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

// Authenticated reports the non-durable flag set by Begin.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.authenticated
}

// ShowDashboard reports whether the dashboard panel should be visible.
func (s *Session) ShowDashboard() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.authenticated {
		return true
	}

	return s.policy == RestoreFromToken && s.token != ""
}

// Begin persists token and user and sets the authenticated flag.
func (s *Session) Begin(token string, user auth.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.store.Put(KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err = s.store.Put(KeyUser, string(rawUser)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	s.token = token
	s.user = user
	s.authenticated = true

	return nil
}

// Clear forgets the token, the user and the flag.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = auth.User{}
	s.authenticated = false

	if err := s.store.Delete(KeyToken); err != nil {
		return err
	}

	return s.store.Delete(KeyUser)
}
