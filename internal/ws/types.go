package ws

import (
	"encoding/json"
	"fmt"

	"rps_rooms/internal/session"
)

// Message is the frame exchanged over the socket in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps an outbound event in a Message frame.
func Encode(ev session.Outbound) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ev.Event(), err)
	}
	return json.Marshal(Message{Type: ev.Event(), Payload: payload})
}

// Decode parses a client frame into an inbound event.
func Decode(raw []byte) (session.Inbound, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrBadPayload, err)
	}
	return session.DecodeInbound(msg.Type, msg.Payload)
}
