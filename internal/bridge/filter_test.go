package bridge_test

import (
	"testing"

	"github.com/relaydesk/discord-relay/internal/bridge"
	"github.com/relaydesk/discord-relay/internal/discord"
	"github.com/stretchr/testify/assert"
)

func msg(id, authorID string, bot bool, content string, mentionIDs ...string) discord.Message {
	m := discord.Message{
		ID:      id,
		Content: content,
		Author:  discord.User{ID: authorID, Bot: bot},
	}
	for _, mid := range mentionIDs {
		m.Mentions = append(m.Mentions, discord.User{ID: mid})
	}
	return m
}

func TestRelevant(t *testing.T) {
	const appID = "app-1"

	tests := []struct {
		name    string
		msgs    []discord.Message
		wantIDs []string
	}{
		{
			name:    "explicit mention",
			msgs:    []discord.Message{msg("1", "u1", false, "hey bot", appID)},
			wantIDs: []string{"1"},
		},
		{
			name:    "direct mention in content",
			msgs:    []discord.Message{msg("2", "u1", false, "ping <@app-1> please")},
			wantIDs: []string{"2"},
		},
		{
			name:    "bot author excluded even when mentioning",
			msgs:    []discord.Message{msg("3", "b1", true, "<@app-1>", appID)},
			wantIDs: nil,
		},
		{
			name:    "unrelated message excluded",
			msgs:    []discord.Message{msg("4", "u1", false, "lunch?")},
			wantIDs: nil,
		},
		{
			name:    "mention of someone else excluded",
			msgs:    []discord.Message{msg("5", "u1", false, "cc <@other>", "other")},
			wantIDs: nil,
		},
		{
			name: "mixed batch",
			msgs: []discord.Message{
				msg("6", "u1", false, "hi", appID),
				msg("7", "b1", true, "bot noise"),
				msg("8", "u2", false, "<@app-1> help"),
				msg("9", "u3", false, "offtopic"),
			},
			wantIDs: []string{"6", "8"},
		},
		{
			name:    "empty input",
			msgs:    nil,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bridge.Relevant(tt.msgs, appID)
			var ids []string
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRelevant_NoAppID(t *testing.T) {
	msgs := []discord.Message{msg("1", "u1", false, "<@app-1>", "app-1")}
	assert.Nil(t, bridge.Relevant(msgs, ""))
}

func TestExtractToken(t *testing.T) {
	proto, token, ok := bridge.ExtractToken("cf-discord-token.abc123")
	assert.True(t, ok)
	assert.Equal(t, "cf-discord-token.abc123", proto)
	assert.Equal(t, "abc123", token)

	// Protocol list with other entries
	proto, token, ok = bridge.ExtractToken("json, cf-discord-token.tok")
	assert.True(t, ok)
	assert.Equal(t, "cf-discord-token.tok", proto)
	assert.Equal(t, "tok", token)

	_, _, ok = bridge.ExtractToken("")
	assert.False(t, ok)

	_, _, ok = bridge.ExtractToken("some-other-protocol")
	assert.False(t, ok)

	// Prefix with empty token
	_, _, ok = bridge.ExtractToken("cf-discord-token.")
	assert.False(t, ok)
}
