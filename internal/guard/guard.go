// Package guard gates access to protected views. One Guard instance
// corresponds to one view mount: the session is resolved exactly once per
// instance, and repeated checks reuse the resolved outcome instead of
// issuing further profile fetches.
package guard

import (
	"context"
	"sync"

	"credit-intake-client/internal/models"
)

// Resolver is the session contract the guard depends on. Satisfied by
// *session.Manager.
type Resolver interface {
	Resolve(ctx context.Context) models.SessionStatus
	Snapshot() models.Session
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	Actor      *models.AdminUser
	RedirectTo string
}

// Guard protects a single view mount.
type Guard struct {
	session   Resolver
	loginPath string

	once     sync.Once
	decision Decision
}

func New(session Resolver, loginPath string) *Guard {
	return &Guard{session: session, loginPath: loginPath}
}

// Check blocks until resolution completes, then allows the protected view
// when the session is Authenticated and redirects to the login entry point
// otherwise. Callers arriving during an in-flight resolution wait for it
// rather than triggering another one.
func (g *Guard) Check(ctx context.Context) Decision {
	g.once.Do(func() {
		status := g.session.Resolve(ctx)
		if status == models.StatusAuthenticated {
			snap := g.session.Snapshot()
			g.decision = Decision{Allowed: true, Actor: snap.Actor}
			return
		}
		g.decision = Decision{Allowed: false, RedirectTo: g.loginPath}
	})
	return g.decision
}
