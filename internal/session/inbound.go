package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadPayload   = errors.New("bad payload")
)

// Inbound is an event received from a client (or, for Disconnect, from the
// transport on its behalf).
type Inbound interface {
	Event() string
	inbound()
}

type CreateRoom struct{}

type JoinRoom struct {
	RoomID RoomID
}

// SubmitMove carries the move as sent; the router validates it.
type SubmitMove struct {
	RoomID RoomID
	Move   string
}

type RequestRematch struct {
	RoomID RoomID
}

type AcceptRematch struct {
	RoomID RoomID
}

type Disconnect struct{}

func (CreateRoom) Event() string     { return EventCreateRoom }
func (JoinRoom) Event() string       { return EventJoinRoom }
func (SubmitMove) Event() string     { return EventMove }
func (RequestRematch) Event() string { return EventRequestRematch }
func (AcceptRematch) Event() string  { return EventAcceptRematch }
func (Disconnect) Event() string     { return EventDisconnect }

func (CreateRoom) inbound()     {}
func (JoinRoom) inbound()       {}
func (SubmitMove) inbound()     {}
func (RequestRematch) inbound() {}
func (AcceptRematch) inbound()  {}
func (Disconnect) inbound()     {}

type roomRef struct {
	RoomID string `json:"roomId"`
	Move   string `json:"move"`
}

// DecodeInbound turns a named client event into its typed form. The payload
// may be omitted, a bare JSON string holding the room id, or an object with
// roomId (and move) fields. Disconnect cannot be sent by a client.
func DecodeInbound(name string, raw json.RawMessage) (Inbound, error) {
	switch name {
	case EventCreateRoom:
		return CreateRoom{}, nil
	case EventJoinRoom, EventMove, EventRequestRematch, EventAcceptRematch:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}

	ref, err := decodeRoomRef(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadPayload, name, err)
	}

	switch name {
	case EventJoinRoom:
		return JoinRoom{RoomID: RoomID(ref.RoomID)}, nil
	case EventMove:
		return SubmitMove{RoomID: RoomID(ref.RoomID), Move: ref.Move}, nil
	case EventRequestRematch:
		return RequestRematch{RoomID: RoomID(ref.RoomID)}, nil
	default:
		return AcceptRematch{RoomID: RoomID(ref.RoomID)}, nil
	}
}

func decodeRoomRef(raw json.RawMessage) (roomRef, error) {
	var ref roomRef

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ref, nil
	}

	if raw[0] == '"' {
		err := json.Unmarshal(raw, &ref.RoomID)
		return ref, err
	}

	err := json.Unmarshal(raw, &ref)
	return ref, err
}
