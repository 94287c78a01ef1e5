// Package push carries server-side runtime changes to running pages over a
// websocket: a Hub on the render server broadcasts, a Client in the runtime
// re-emits every message on the events bus.
package push

import (
	"encoding/json"
	"fmt"

	"github.com/vcrobe/nojs-render/events"
)

// Message is one push frame.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage encodes payload for event.
func NewMessage(event string, payload any) (Message, error) {
	m := Message{Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("encode %s payload: %w", event, err)
		}
		m.Payload = raw
	}
	return m, nil
}

// Decode returns the payload in the Go type the bus listeners of the event
// expect: string for localesChanged and componentUpdated, []string for
// localesUpdated, nil for extensionsUpdated.
func (m Message) Decode() (any, error) {
	switch m.Event {
	case events.LocalesChanged, events.ComponentUpdated:
		var s string
		if err := json.Unmarshal(m.Payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", m.Event, err)
		}
		return s, nil
	case events.LocalesUpdated:
		var locales []string
		if err := json.Unmarshal(m.Payload, &locales); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", m.Event, err)
		}
		return locales, nil
	case events.ExtensionsUpdated:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown push event %q", m.Event)
	}
}
