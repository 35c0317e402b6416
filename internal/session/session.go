// Package session owns the process-wide session value and its lifecycle:
// Anonymous -> Authenticating -> Authenticated, with Authenticated ->
// Invalid -> Anonymous on a rejected credential and Authenticating ->
// Anonymous on a failed login. All other components read the session via
// Snapshot and never mutate it directly.
package session

import (
	"context"
	"net/http"
	"sync"

	apperrors "credit-intake-client/internal/common/errors"
	"credit-intake-client/internal/common/logger"
	"credit-intake-client/internal/credstore"
	"credit-intake-client/internal/models"
)

// Sender is the outbound request contract the state machine depends on.
// Satisfied by *gateway.Gateway.
type Sender interface {
	Send(ctx context.Context, method, path string, body, out interface{}) error
}

// Manager is the session state machine.
type Manager struct {
	store credstore.Store
	api   Sender
	log   logger.Logger

	mu        sync.Mutex
	session   models.Session
	resolving chan struct{} // non-nil while a resolution is in flight
}

// NewManager creates the state machine. The initial state is Anonymous
// when no token is stored, otherwise Authenticating pending validation.
func NewManager(store credstore.Store, api Sender, log logger.Logger) *Manager {
	m := &Manager{
		store:   store,
		api:     api,
		log:     log,
		session: models.Session{Status: models.StatusAnonymous},
	}

	if token, _ := store.Get(context.Background()); token != "" {
		m.session = models.Session{Token: token, Status: models.StatusAuthenticating}
	}

	return m
}

// Snapshot returns a copy of the current session value.
func (m *Manager) Snapshot() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Login exchanges credentials for a token, persists it, and fetches the
// actor profile. On any failure, partial state is cleared and the machine
// returns to Anonymous with the failure reason propagated.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.setState(models.Session{Status: models.StatusAuthenticating})

	var token models.TokenResponse
	err := m.api.Send(ctx, http.MethodPost, "/api/auth/login",
		models.Credentials{Username: username, Password: password}, &token)
	if err != nil {
		m.log.Warn("login failed", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		m.setState(models.Session{Status: models.StatusAnonymous})
		return err
	}

	if err := m.store.Set(ctx, token.AccessToken); err != nil {
		m.setState(models.Session{Status: models.StatusAnonymous})
		return err
	}

	// The token must be persisted before the profile fetch so the gateway
	// attaches it as the bearer credential.
	var actor models.AdminUser
	if err := m.api.Send(ctx, http.MethodGet, "/api/auth/me", nil, &actor); err != nil {
		_ = m.store.Clear(ctx)
		m.setState(models.Session{Status: models.StatusAnonymous})
		return err
	}

	m.setState(models.Session{
		Token:  token.AccessToken,
		Actor:  &actor,
		Status: models.StatusAuthenticated,
	})
	m.log.Info("login succeeded", map[string]interface{}{
		"username": actor.Username,
	})
	return nil
}

// Logout clears the credential store and returns to Anonymous. It never
// requires a network call to succeed.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("failed to clear credential store on logout", map[string]interface{}{
			"error": err.Error(),
		})
	}
	m.setState(models.Session{Status: models.StatusAnonymous})
}

// Resolve confirms the stored token against the actor-profile endpoint.
// Concurrent calls coalesce on a single in-flight resolution: the second
// caller waits for the first and observes its result instead of issuing a
// duplicate profile fetch.
func (m *Manager) Resolve(ctx context.Context) models.SessionStatus {
	m.mu.Lock()
	if ch := m.resolving; ch != nil {
		m.mu.Unlock()
		<-ch
		return m.Snapshot().Status
	}
	ch := make(chan struct{})
	m.resolving = ch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.resolving = nil
		m.mu.Unlock()
		close(ch)
	}()

	token, _ := m.store.Get(ctx)
	if token == "" {
		m.setState(models.Session{Status: models.StatusAnonymous})
		return models.StatusAnonymous
	}

	var actor models.AdminUser
	if err := m.api.Send(ctx, http.MethodGet, "/api/auth/me", nil, &actor); err != nil {
		// A 401 has already been intercepted by the gateway; any other
		// failure also degrades to Anonymous with the store cleared.
		if !apperrors.IsAuth(err) {
			_ = m.store.Clear(ctx)
		}
		m.log.Debug("session resolution failed", map[string]interface{}{
			"error": err.Error(),
		})
		m.setState(models.Session{Status: models.StatusAnonymous})
		return models.StatusAnonymous
	}

	m.setState(models.Session{
		Token:  token,
		Actor:  &actor,
		Status: models.StatusAuthenticated,
	})
	return models.StatusAuthenticated
}

// HandleUnauthorized is the gateway's 401 hook: the credential was rejected
// mid-flight, the store is already cleared, and the session is invalidated
// from whatever state it was in.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	prior := m.session.Status
	m.session = models.Session{Status: models.StatusInvalid}
	m.mu.Unlock()

	m.log.Warn("session invalidated by rejected credential", map[string]interface{}{
		"priorStatus": string(prior),
	})

	// Invalidation destroys the session: Invalid is transient and lands on
	// Anonymous in the same step.
	m.setState(models.Session{Status: models.StatusAnonymous})
}

func (m *Manager) setState(s models.Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}
