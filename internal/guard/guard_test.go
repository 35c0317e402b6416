package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-intake-client/internal/models"
)

type fakeResolver struct {
	status   models.SessionStatus
	actor    *models.AdminUser
	resolves int64
}

func (f *fakeResolver) Resolve(ctx context.Context) models.SessionStatus {
	atomic.AddInt64(&f.resolves, 1)
	return f.status
}

func (f *fakeResolver) Snapshot() models.Session {
	return models.Session{Status: f.status, Actor: f.actor}
}

func TestCheck_AuthenticatedAllows(t *testing.T) {
	actor := &models.AdminUser{ID: 1, Username: "admin", Email: "admin@x.com"}
	resolver := &fakeResolver{status: models.StatusAuthenticated, actor: actor}
	g := New(resolver, "/admin")

	decision := g.Check(context.Background())
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.Actor)
	assert.Equal(t, "admin", decision.Actor.Username)
	assert.Empty(t, decision.RedirectTo)
}

func TestCheck_AnonymousRedirects(t *testing.T) {
	resolver := &fakeResolver{status: models.StatusAnonymous}
	g := New(resolver, "/admin")

	decision := g.Check(context.Background())
	assert.False(t, decision.Allowed)
	assert.Nil(t, decision.Actor)
	assert.Equal(t, "/admin", decision.RedirectTo)
}

func TestCheck_ResolvesOncePerMount(t *testing.T) {
	resolver := &fakeResolver{status: models.StatusAuthenticated, actor: &models.AdminUser{ID: 1}}
	g := New(resolver, "/admin")

	first := g.Check(context.Background())
	second := g.Check(context.Background())

	assert.Equal(t, int64(1), atomic.LoadInt64(&resolver.resolves),
		"re-render must not re-resolve")
	assert.Equal(t, first, second)
}

func TestCheck_ConcurrentCallersObserveOneResolution(t *testing.T) {
	resolver := &fakeResolver{status: models.StatusAuthenticated, actor: &models.AdminUser{ID: 1}}
	g := New(resolver, "/admin")

	const callers = 8
	decisions := make([]Decision, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decisions[i] = g.Check(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&resolver.resolves))
	for _, d := range decisions {
		assert.True(t, d.Allowed)
	}
}

func TestCheck_NewMountResolvesAgain(t *testing.T) {
	resolver := &fakeResolver{status: models.StatusAuthenticated, actor: &models.AdminUser{ID: 1}}

	New(resolver, "/admin").Check(context.Background())
	New(resolver, "/admin").Check(context.Background())

	assert.Equal(t, int64(2), atomic.LoadInt64(&resolver.resolves),
		"each mount gets exactly one resolution")
}
