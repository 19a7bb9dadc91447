package interactions

import "fmt"

// Discord response types.
const (
	responsePong               = 1
	responseChannelMessage     = 4
	responseAutocompleteResult = 8
)

// MessageData is the data block of a channel-message response.
type MessageData struct {
	Content string `json:"content"`
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AutocompleteData is the data block of an autocomplete response. The
// choice set is always serialized, even when empty.
type AutocompleteData struct {
	Choices []Choice `json:"choices"`
}

// Response is the payload returned to the platform for one interaction.
type Response struct {
	Type int `json:"type"`
	Data any `json:"data,omitempty"`
}

// Dispatch maps an inbound event to its response. It is total: every event
// kind, including Unknown, yields a well-formed payload.
func Dispatch(ev Event) Response {
	switch ev.Kind {
	case KindPing:
		return Response{Type: responsePong}
	case KindCommand:
		return channelMessage(fmt.Sprintf("Received command: %s", ev.Name))
	case KindComponent:
		return channelMessage(fmt.Sprintf("Component interaction received: %s", ev.CustomID))
	case KindAutocomplete:
		// Extension point: no suggestions yet, but the choice set must be
		// present in the payload.
		return Response{
			Type: responseAutocompleteResult,
			Data: AutocompleteData{Choices: []Choice{}},
		}
	case KindModalSubmit:
		return channelMessage(fmt.Sprintf("Modal submission received: %s", ev.CustomID))
	default:
		return channelMessage("Received interaction")
	}
}

func channelMessage(content string) Response {
	return Response{
		Type: responseChannelMessage,
		Data: MessageData{Content: content},
	}
}
