package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relaydesk/discord-relay/internal/discord"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 20 // 1MB
)

// Session is one live relay between a connected client and an upstream
// channel. At most one polling task runs per session; re-init replaces it.
type Session struct {
	id      string
	token   string // upstream credential from the websocket subprotocol
	manager *Manager
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}

	closeOnce sync.Once

	// Polling state, guarded by pollMu. pollCancel is non-nil iff a poll
	// task is live.
	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	channelID  string
}

func newSession(m *Manager, conn *websocket.Conn, id, token string) *Session {
	return &Session{
		id:      id,
		token:   token,
		manager: m,
		conn:    conn,
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
	}
}

// ClientID returns the session's client identifier.
func (s *Session) ClientID() string { return s.id }

// sendJSON queues an event for the write pump. Delivery is dropped, not
// blocked on, when the client is slow or the session is gone.
func (s *Session) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("bridge: marshal event", "err", err)
		return
	}
	select {
	case <-s.done:
	case s.send <- data:
	default:
		slog.Warn("bridge: send buffer full, dropping event", "client", s.id)
	}
}

// readPump consumes client messages until the connection dies, then tears
// the session down.
func (s *Session) readPump() {
	defer s.manager.remove(s)

	s.conn.SetReadLimit(maxMsgSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Info("bridge: client disconnected", "client", s.id, "err", err)
			}
			return
		}
		s.handleMessage(data)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Warn("bridge: invalid client message", "client", s.id, "err", err)
		return
	}

	switch msg.Type {
	case msgInit:
		if msg.ChannelID == "" {
			s.sendJSON(newError("channelId required"))
			return
		}
		s.startPolling(msg.ChannelID)
		s.sendJSON(newConnected(s.id))
	case msgSend:
		s.handleSend(msg)
	default:
		slog.Warn("bridge: unknown message type", "client", s.id, "type", msg.Type)
	}
}

// startPolling begins a poll task for channelID, cancelling any previous
// one first so the session never holds two pollers.
func (s *Session) startPolling(channelID string) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if s.pollCancel != nil {
		s.pollCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.pollCancel = cancel
	s.channelID = channelID

	slog.Info("bridge: session polling", "client", s.id, "channel", channelID)
	go s.pollLoop(ctx, channelID)
}

// stopPolling cancels the poll task if one is live. Safe to call
// concurrently with an in-flight cycle: the cycle finishes but schedules
// nothing further.
func (s *Session) stopPolling() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

// currentChannel returns the channel of the active poll task, if any.
func (s *Session) currentChannel() string {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	return s.channelID
}

func (s *Session) pollLoop(ctx context.Context, channelID string) {
	m := s.manager

	// Resume from the persisted cursor so a reconnect does not replay the
	// recent window. Best effort: on error start from zero.
	lastSeen, err := m.cursors.Get(ctx, m.tenantID, channelID)
	if err != nil {
		slog.Warn("bridge: load cursor", "tenant", m.tenantID, "channel", channelID, "err", err)
	}

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lastSeen = s.pollOnce(ctx, channelID, lastSeen)
		}
	}
}

// pollOnce runs one fetch-filter-relay cycle and returns the advanced
// high-water mark. Transient upstream failures skip the cycle.
func (s *Session) pollOnce(ctx context.Context, channelID string, lastSeen uint64) uint64 {
	m := s.manager

	msgs, err := m.upstream.ListMessages(ctx, s.token, channelID)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("bridge: poll fetch failed", "client", s.id, "channel", channelID, "err", err)
		}
		return lastSeen
	}

	matched := Relevant(msgs, m.appID())
	var fresh []json.RawMessage
	maxSeen := lastSeen
	for _, msg := range matched {
		id, perr := strconv.ParseUint(msg.ID, 10, 64)
		if perr == nil {
			if id <= lastSeen {
				continue
			}
			if id > maxSeen {
				maxSeen = id
			}
		}
		fresh = append(fresh, msg.Raw)
	}
	if len(fresh) == 0 {
		return maxSeen
	}

	// Cancellation may have landed mid-fetch; never deliver to a dead
	// session.
	select {
	case <-ctx.Done():
		return lastSeen
	default:
	}

	s.sendJSON(newMessages(fresh))

	if maxSeen > lastSeen {
		if err := m.cursors.Set(ctx, m.tenantID, channelID, maxSeen); err != nil {
			slog.Warn("bridge: persist cursor", "tenant", m.tenantID, "channel", channelID, "err", err)
		}
	}
	return maxSeen
}

func (s *Session) handleSend(msg clientMessage) {
	channelID := s.currentChannel()
	if channelID == "" {
		s.sendJSON(newError("no active channel, send init first"))
		return
	}

	req := discord.SendRequest{Content: msg.Content}
	if len(msg.Embed) > 0 {
		req.Embeds = []json.RawMessage{msg.Embed}
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	sent, err := s.manager.upstream.PostMessage(ctx, s.token, channelID, req)
	if err != nil {
		slog.Warn("bridge: send failed", "client", s.id, "channel", channelID, "err", err)
		s.sendJSON(newError("message send failed"))
		return
	}
	s.sendJSON(newMessageSent(sent.Raw))
}

// teardown stops the poll task and releases the connection. Idempotent.
func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		s.stopPolling()
		close(s.done)
		s.conn.Close()
	})
}
