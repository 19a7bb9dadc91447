package interactions_test

import (
	"encoding/json"
	"testing"

	"github.com/relaydesk/discord-relay/internal/interactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want interactions.Event
	}{
		{
			name: "ping",
			body: `{"type":1}`,
			want: interactions.Event{Kind: interactions.KindPing},
		},
		{
			name: "command",
			body: `{"type":2,"data":{"name":"ping"}}`,
			want: interactions.Event{Kind: interactions.KindCommand, Name: "ping"},
		},
		{
			name: "component",
			body: `{"type":3,"data":{"custom_id":"btn-1"}}`,
			want: interactions.Event{Kind: interactions.KindComponent, CustomID: "btn-1"},
		},
		{
			name: "autocomplete",
			body: `{"type":4,"data":{"name":"search","options":[{"name":"q","value":"par","focused":true}]}}`,
			want: interactions.Event{Kind: interactions.KindAutocomplete, Partial: "par"},
		},
		{
			name: "modal submit",
			body: `{"type":5,"data":{"custom_id":"modal-1"}}`,
			want: interactions.Event{Kind: interactions.KindModalSubmit, CustomID: "modal-1"},
		},
		{
			name: "unrecognized type",
			body: `{"type":99}`,
			want: interactions.Event{Kind: interactions.KindUnknown},
		},
		{
			name: "malformed json",
			body: `{"type":`,
			want: interactions.Event{Kind: interactions.KindUnknown},
		},
		{
			name: "empty body",
			body: ``,
			want: interactions.Event{Kind: interactions.KindUnknown},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interactions.ParseEvent([]byte(tt.body)))
		})
	}
}

// TestDispatch_Totality: every event kind produces a well-formed response.
func TestDispatch_Totality(t *testing.T) {
	events := []interactions.Event{
		{Kind: interactions.KindPing},
		{Kind: interactions.KindCommand, Name: "ping"},
		{Kind: interactions.KindComponent, CustomID: "btn"},
		{Kind: interactions.KindAutocomplete, Partial: "pa"},
		{Kind: interactions.KindModalSubmit, CustomID: "modal"},
		{Kind: interactions.KindUnknown},
		{Kind: interactions.EventKind(42)},
	}
	for _, ev := range events {
		resp := interactions.Dispatch(ev)
		assert.NotZero(t, resp.Type, "event kind %d must yield a typed response", ev.Kind)
		// Must serialize cleanly
		_, err := json.Marshal(resp)
		require.NoError(t, err)
	}
}

func TestDispatch_Ping(t *testing.T) {
	resp := interactions.Dispatch(interactions.Event{Kind: interactions.KindPing})
	assert.Equal(t, 1, resp.Type)
	assert.Nil(t, resp.Data)
}

func TestDispatch_CommandEchoesName(t *testing.T) {
	resp := interactions.Dispatch(interactions.Event{Kind: interactions.KindCommand, Name: "deploy"})
	assert.Equal(t, 4, resp.Type)
	data, ok := resp.Data.(interactions.MessageData)
	require.True(t, ok)
	assert.Equal(t, "Received command: deploy", data.Content)
}

func TestDispatch_AutocompleteEmptyChoices(t *testing.T) {
	resp := interactions.Dispatch(interactions.Event{Kind: interactions.KindAutocomplete})
	assert.Equal(t, 8, resp.Type)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":8,"data":{"choices":[]}}`, string(raw))
}

func TestDispatch_UnknownAcknowledged(t *testing.T) {
	resp := interactions.Dispatch(interactions.ParseEvent([]byte("garbage")))
	assert.Equal(t, 4, resp.Type)
	data, ok := resp.Data.(interactions.MessageData)
	require.True(t, ok)
	assert.Equal(t, "Received interaction", data.Content)
}
