// Package bridge maintains websocket relay sessions between connected
// clients and upstream channels, translating the pull-based message-listing
// API into a push stream by polling on the client's behalf.
package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relaydesk/discord-relay/internal/cursor"
	"github.com/relaydesk/discord-relay/internal/discord"
)

// TokenProtocolPrefix is the websocket subprotocol prefix carrying the
// upstream credential, `cf-discord-token.<token>`.
const TokenProtocolPrefix = "cf-discord-token."

// DefaultPollInterval is the fixed poll period for bridge sessions.
const DefaultPollInterval = 2 * time.Second

// Upstream is the slice of the platform API a bridge session needs.
// *discord.Client satisfies it.
type Upstream interface {
	ListMessages(ctx context.Context, token, channelID string) ([]discord.Message, error)
	PostMessage(ctx context.Context, token, channelID string, send discord.SendRequest) (*discord.Message, error)
}

// Manager owns the bridge sessions of one tenant actor.
type Manager struct {
	tenantID     string
	appID        func() string // snapshot of the tenant's application ID
	upstream     Upstream
	cursors      cursor.Store
	pollInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// Config carries optional Manager settings.
type Config struct {
	// PollInterval overrides the 2s default (tests).
	PollInterval time.Duration
}

// New creates a Manager for one tenant. appID must be safe to call from
// poll goroutines; it returns the tenant's current application ID, or ""
// when the tenant is uninitialized.
func New(tenantID string, appID func() string, upstream Upstream, cursors cursor.Store, cfg Config) *Manager {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Manager{
		tenantID:     tenantID,
		appID:        appID,
		upstream:     upstream,
		cursors:      cursors,
		pollInterval: cfg.PollInterval,
		sessions:     make(map[string]*Session),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ExtractToken pulls the upstream credential out of the negotiated
// subprotocol list. Returns the matched protocol entry and the token, or
// ok=false when no entry carries the expected prefix.
func ExtractToken(header string) (proto, token string, ok bool) {
	for _, p := range strings.Split(header, ",") {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, TokenProtocolPrefix) {
			token = strings.TrimPrefix(p, TokenProtocolPrefix)
			if token == "" {
				return "", "", false
			}
			return p, token, true
		}
	}
	return "", "", false
}

// HandleUpgrade validates the subprotocol credential, upgrades the
// connection, and runs the session lifecycle. Invalid or missing
// credentials are rejected before the upgrade happens.
func (m *Manager) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	proto, token, ok := ExtractToken(r.Header.Get("Sec-WebSocket-Protocol"))
	if !ok {
		http.Error(w, "invalid websocket protocol", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, http.Header{
		"Sec-WebSocket-Protocol": {proto},
	})
	if err != nil {
		slog.Error("bridge: upgrade failed", "tenant", m.tenantID, "err", err)
		return
	}

	s := newSession(m, conn, uuid.NewString(), token)
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	slog.Info("bridge: session opened", "tenant", m.tenantID, "client", s.id)

	go s.writePump()
	go s.readPump()
}

// remove tears a session down and forgets it. Called when the client
// connection closes or errors; the session's poll task must not outlive it.
func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
	s.teardown()
	slog.Info("bridge: session closed", "tenant", m.tenantID, "client", s.id)
}

// ActiveSessions reports the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown tears down every session, e.g. on server stop.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.teardown()
	}
}

// Relevant filters upstream messages to those a bridge session relays:
// human-authored and addressed to the tenant's application, either through
// an explicit mention or a direct mention string in the content.
func Relevant(msgs []discord.Message, appID string) []discord.Message {
	if appID == "" {
		return nil
	}
	var out []discord.Message
	for _, msg := range msgs {
		if msg.Author.Bot {
			continue
		}
		if mentionsApp(msg, appID) || strings.Contains(msg.Content, "<@"+appID+">") {
			out = append(out, msg)
		}
	}
	return out
}

func mentionsApp(msg discord.Message, appID string) bool {
	for _, u := range msg.Mentions {
		if u.ID == appID {
			return true
		}
	}
	return false
}
