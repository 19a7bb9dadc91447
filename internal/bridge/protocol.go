package bridge

import "encoding/json"

// clientMessage is the type-peek for messages arriving from a connected
// client.
type clientMessage struct {
	Type      string          `json:"type"`
	ChannelID string          `json:"channelId,omitempty"`
	Content   string          `json:"content,omitempty"`
	Embed     json.RawMessage `json:"embed,omitempty"`
}

// Client message types.
const (
	msgInit = "init"
	msgSend = "send"
)

// connectedEvent acknowledges a session init.
type connectedEvent struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

// messagesEvent relays a non-empty batch of matching upstream messages.
// Records are forwarded verbatim as received from the platform.
type messagesEvent struct {
	Type     string            `json:"type"`
	Messages []json.RawMessage `json:"messages"`
}

// messageSentEvent confirms a successful send with the upstream-assigned
// record.
type messageSentEvent struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

// errorEvent reports a failed client request, e.g. an upstream send that
// did not go through.
type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newConnected(clientID string) connectedEvent {
	return connectedEvent{Type: "connected", ClientID: clientID}
}

func newMessages(msgs []json.RawMessage) messagesEvent {
	return messagesEvent{Type: "messages", Messages: msgs}
}

func newMessageSent(msg json.RawMessage) messageSentEvent {
	return messageSentEvent{Type: "message_sent", Message: msg}
}

func newError(message string) errorEvent {
	return errorEvent{Type: "error", Message: message}
}
