// Package interactions verifies and dispatches signed webhook events from
// the Discord interactions API.
package interactions

import "encoding/json"

// EventKind discriminates the decoded interaction union.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindPing
	KindCommand
	KindComponent
	KindAutocomplete
	KindModalSubmit
)

// Discord wire-format interaction types.
const (
	typePing                 = 1
	typeApplicationCommand   = 2
	typeMessageComponent     = 3
	typeCommandAutocomplete  = 4
	typeModalSubmit          = 5
)

// Event is one decoded inbound interaction. Exactly the fields relevant to
// the kind are populated; everything else is zero.
type Event struct {
	Kind EventKind

	// Command
	Name string

	// Component / ModalSubmit
	CustomID string

	// Autocomplete
	Partial string
}

type wireInteraction struct {
	Type int `json:"type"`
	Data struct {
		Name     string `json:"name"`
		CustomID string `json:"custom_id"`
		Options  []struct {
			Name    string `json:"name"`
			Value   any    `json:"value"`
			Focused bool   `json:"focused"`
		} `json:"options"`
	} `json:"data"`
}

// ParseEvent decodes a verified interaction body. Malformed or unrecognized
// payloads come back as KindUnknown rather than an error: every delivery
// gets an answer.
func ParseEvent(body []byte) Event {
	var w wireInteraction
	if err := json.Unmarshal(body, &w); err != nil {
		return Event{Kind: KindUnknown}
	}
	switch w.Type {
	case typePing:
		return Event{Kind: KindPing}
	case typeApplicationCommand:
		return Event{Kind: KindCommand, Name: w.Data.Name}
	case typeMessageComponent:
		return Event{Kind: KindComponent, CustomID: w.Data.CustomID}
	case typeCommandAutocomplete:
		ev := Event{Kind: KindAutocomplete}
		for _, opt := range w.Data.Options {
			if opt.Focused {
				if s, ok := opt.Value.(string); ok {
					ev.Partial = s
				}
			}
		}
		return ev
	case typeModalSubmit:
		return Event{Kind: KindModalSubmit, CustomID: w.Data.CustomID}
	default:
		return Event{Kind: KindUnknown}
	}
}
