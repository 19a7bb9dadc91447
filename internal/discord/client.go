// Package discord is a minimal Discord REST client covering the calls the
// relay makes on behalf of tenants: command registration, token validation,
// and channel message listing/posting.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://discord.com/api/v10"

// User is a message author or mention target.
type User struct {
	ID  string `json:"id"`
	Bot bool   `json:"bot,omitempty"`
}

// Message is a channel message as returned by the Discord API. Fields the
// relay does not inspect are carried verbatim in Raw so clients receive the
// full upstream record.
type Message struct {
	ID        string          `json:"id"`
	ChannelID string          `json:"channel_id,omitempty"`
	Content   string          `json:"content"`
	Author    User            `json:"author"`
	Mentions  []User          `json:"mentions,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// Command is a slash command definition.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SendRequest is the payload for posting a channel message.
type SendRequest struct {
	Content string            `json:"content"`
	Embeds  []json.RawMessage `json:"embeds,omitempty"`
}

// Client calls the Discord REST API with per-call bot tokens.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client against the public Discord API.
func New() *Client {
	return NewWithBaseURL(DefaultBaseURL)
}

// NewWithBaseURL creates a client against a custom endpoint (tests).
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// RegisterCommand registers a global slash command for an application.
func (c *Client) RegisterCommand(ctx context.Context, token, applicationID string, cmd Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	url := fmt.Sprintf("%s/applications/%s/commands", c.baseURL, applicationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create command: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("create command: status %d", resp.StatusCode)
	}
	return nil
}

// ValidateToken checks the token by fetching the application identity.
// A transport error is returned as an error; a non-2xx response yields
// (false, nil).
func (c *Client) ValidateToken(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/applications/@me", nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("applications/@me: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

// ListMessages returns the most recent messages in a channel, newest first.
func (c *Client) ListMessages(ctx context.Context, token, channelID string) ([]Message, error) {
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("list messages: status %d: %s", resp.StatusCode, body)
	}

	var raws []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	msgs := make([]Message, 0, len(raws))
	for _, raw := range raws {
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		m.Raw = raw
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// PostMessage posts a message to a channel and returns the created record.
func (c *Client) PostMessage(ctx context.Context, token, channelID string, send SendRequest) (*Message, error) {
	body, err := json.Marshal(send)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("post message: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	m.Raw = raw
	return &m, nil
}

// Proxy forwards an arbitrary API call and hands back status and body
// untouched. Used by the catch-all passthrough route.
func (c *Client) Proxy(ctx context.Context, method, path string, header http.Header, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if auth := header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("proxy %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bot "+token)
	req.Header.Set("Content-Type", "application/json")
}
