// Package actor implements the per-tenant unit of state and logic: each
// tenant's credentials, webhook dispatch, and bridge sessions are owned by
// exactly one Actor, and all externally delivered requests for a tenant are
// processed one at a time.
package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relaydesk/discord-relay/internal/bridge"
	"github.com/relaydesk/discord-relay/internal/credstore"
	"github.com/relaydesk/discord-relay/internal/discord"
	"github.com/relaydesk/discord-relay/internal/interactions"
)

var (
	// ErrMissingFields rejects an initialize call lacking one of the three
	// credential fields. Nothing is persisted in that case.
	ErrMissingFields = errors.New("missing required fields")
	// ErrUnauthorized covers every authentication failure on webhook
	// delivery. Deliberately generic: callers learn nothing about which
	// check failed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotInitialized is returned when a tenant has no stored config.
	ErrNotInitialized = errors.New("tenant not initialized")
)

const registerCommandTimeout = 15 * time.Second

// InitRequest is the payload of an initialize call.
type InitRequest struct {
	PublicKey     string `json:"publicKey"`
	ApplicationID string `json:"applicationId"`
	Token         string `json:"token"`
}

// InitResult is returned on successful initialization.
type InitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusResult reports upstream credential validity. It is always produced,
// never an error: upstream trouble is a negative result, not a failure.
type StatusResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Actor is the tenant-scoped actor. Externally delivered requests
// (initialize, status, webhook delivery, bridge upgrade) run under mu,
// strictly one at a time. Bridge poll tasks run concurrently and only read
// the config through the snapshot accessor.
type Actor struct {
	tenantID      string
	store         credstore.Store
	upstream      *discord.Client
	bridges       *bridge.Manager
	publicBaseURL string

	mu sync.Mutex // serializes request handling

	cfgMu sync.RWMutex
	cfg   *credstore.TenantConfig // read-through cache, nil until loaded

	lastActive atomic.Int64 // unix seconds of the last handled request
}

func (a *Actor) touch() {
	a.lastActive.Store(time.Now().Unix())
}

// LastActive returns the time the actor last handled a request.
func (a *Actor) LastActive() time.Time {
	return time.Unix(a.lastActive.Load(), 0)
}

// ActiveSessions reports the number of live bridge sessions.
func (a *Actor) ActiveSessions() int {
	return a.bridges.ActiveSessions()
}

// config returns the cached config snapshot without touching the store.
func (a *Actor) config() *credstore.TenantConfig {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// applicationID is the bridge manager's config accessor.
func (a *Actor) applicationID() string {
	if cfg := a.config(); cfg != nil {
		return cfg.ApplicationID
	}
	return ""
}

// loadConfig returns the cached config, reading through to the store on
// first access. (nil, nil) means the tenant was never initialized.
func (a *Actor) loadConfig(ctx context.Context) (*credstore.TenantConfig, error) {
	if cfg := a.config(); cfg != nil {
		return cfg, nil
	}
	cfg, err := a.store.Get(ctx, a.tenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant config: %w", err)
	}
	if cfg == nil {
		return nil, nil
	}
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()
	return cfg, nil
}

// Initialize stores the full credential set and registers the default
// command upstream. The three fields are all-or-nothing: a missing field
// rejects the call before any store mutation. Command registration is
// fire-and-forget; its failure is logged and does not fail the call.
func (a *Actor) Initialize(ctx context.Context, req InitRequest) (InitResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	cfg := credstore.TenantConfig{
		ApplicationID: req.ApplicationID,
		PublicKey:     req.PublicKey,
		BotToken:      req.Token,
	}
	if !cfg.Complete() {
		return InitResult{}, ErrMissingFields
	}

	if err := a.store.Put(ctx, a.tenantID, cfg); err != nil {
		return InitResult{}, fmt.Errorf("persist tenant config: %w", err)
	}
	a.cfgMu.Lock()
	a.cfg = &cfg
	a.cfgMu.Unlock()

	go a.registerDefaultCommand(cfg)

	slog.Info("tenant initialized", "tenant", a.tenantID)
	return InitResult{
		Success: true,
		Message: fmt.Sprintf("Please set your Interactions Endpoint URL to: %s/interactions", a.publicBaseURL),
	}, nil
}

func (a *Actor) registerDefaultCommand(cfg credstore.TenantConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), registerCommandTimeout)
	defer cancel()
	err := a.upstream.RegisterCommand(ctx, cfg.BotToken, cfg.ApplicationID, discord.Command{
		Name:        "ping",
		Description: "Replies with Pong!",
	})
	if err != nil {
		slog.Warn("command registration failed (init still succeeded)", "tenant", a.tenantID, "err", err)
		return
	}
	slog.Info("command registered", "tenant", a.tenantID)
}

// CheckStatus validates the stored token against the upstream identity
// endpoint. Upstream failures translate into a negative result rather than
// an error.
func (a *Actor) CheckStatus(ctx context.Context) StatusResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	cfg, err := a.loadConfig(ctx)
	if err != nil || cfg == nil {
		return StatusResult{Success: false, Message: "Discord configuration invalid"}
	}
	ok, err := a.upstream.ValidateToken(ctx, cfg.BotToken)
	if err != nil {
		slog.Warn("status check failed", "tenant", a.tenantID, "err", err)
		return StatusResult{Success: false, Message: "Failed to validate Discord configuration"}
	}
	if !ok {
		return StatusResult{Success: false, Message: "Discord configuration invalid"}
	}
	return StatusResult{Success: true, Message: "Discord configuration valid"}
}

// PublicKey returns the tenant's verification key, or ErrNotInitialized.
func (a *Actor) PublicKey(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return "", err
	}
	if cfg == nil || cfg.PublicKey == "" {
		return "", ErrNotInitialized
	}
	return cfg.PublicKey, nil
}

// HandleInteraction verifies a signed webhook delivery and dispatches it.
// Missing headers, a missing public key, and a bad signature all collapse
// into ErrUnauthorized.
func (a *Actor) HandleInteraction(ctx context.Context, body []byte, signature, timestamp string) (interactions.Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return interactions.Response{}, err
	}
	if cfg == nil || signature == "" || timestamp == "" {
		return interactions.Response{}, ErrUnauthorized
	}
	if !interactions.Verify(body, signature, timestamp, cfg.PublicKey) {
		return interactions.Response{}, ErrUnauthorized
	}

	ev := interactions.ParseEvent(body)
	return interactions.Dispatch(ev), nil
}

// HandleWebSocket upgrades a realtime bridge connection and hands it to the
// bridge manager.
func (a *Actor) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.touch()
	a.mu.Unlock()
	a.bridges.HandleUpgrade(w, r)
}

// Shutdown tears down all bridge sessions.
func (a *Actor) Shutdown() {
	a.bridges.Shutdown()
}
