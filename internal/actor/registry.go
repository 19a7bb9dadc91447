package actor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/relaydesk/discord-relay/internal/bridge"
	"github.com/relaydesk/discord-relay/internal/credstore"
	"github.com/relaydesk/discord-relay/internal/cursor"
	"github.com/relaydesk/discord-relay/internal/discord"
)

// Deps are the collaborators shared by all actors.
type Deps struct {
	Store         credstore.Store
	Cursors       cursor.Store
	Upstream      *discord.Client
	PublicBaseURL string
	// PollInterval overrides the bridge poll period (tests).
	PollInterval time.Duration
}

// Registry maps tenant keys to actor instances. It is the in-process
// realization of the addressing contract: every request naming a tenant key
// reaches the same Actor.
type Registry struct {
	deps Deps

	mu     sync.Mutex
	actors map[string]*Actor
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, actors: make(map[string]*Actor)}
}

// Get returns the actor for tenantID, creating it on first use.
func (r *Registry) Get(tenantID string) *Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.actors[tenantID]; ok {
		return a
	}
	a := &Actor{
		tenantID:      tenantID,
		store:         r.deps.Store,
		upstream:      r.deps.Upstream,
		publicBaseURL: r.deps.PublicBaseURL,
	}
	a.bridges = bridge.New(tenantID, a.applicationID, r.deps.Upstream, r.deps.Cursors,
		bridge.Config{PollInterval: r.deps.PollInterval})
	a.touch()
	r.actors[tenantID] = a
	return a
}

// Len reports the number of live actor instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actors)
}

// RunJanitor evicts actors that have been idle past idleAfter and hold no
// bridge sessions, so the registry does not grow without bound. Durable
// state stays in the credential store; an evicted tenant is rebuilt on its
// next request. Blocks until ctx is cancelled.
func (r *Registry) RunJanitor(ctx context.Context, idleAfter time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle(idleAfter)
		}
	}
}

// EvictIdle performs a single eviction pass. Exported for testing.
func (r *Registry) EvictIdle(idleAfter time.Duration) {
	cutoff := time.Now().Add(-idleAfter)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.actors {
		if a.ActiveSessions() > 0 || a.LastActive().After(cutoff) {
			continue
		}
		delete(r.actors, id)
		slog.Info("evicted idle actor", "tenant", id, "idle_for", time.Since(a.LastActive()))
	}
}

// Shutdown tears down every actor's bridge sessions.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	actors := make([]*Actor, 0, len(r.actors))
	for _, a := range r.actors {
		actors = append(actors, a)
	}
	r.mu.Unlock()

	for _, a := range actors {
		a.Shutdown()
	}
}
