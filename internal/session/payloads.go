package session

import "rps_rooms/internal/game"

// Outbound is an event sent to a client. The concrete type is the JSON payload.
type Outbound interface {
	Event() string
	outbound()
}

type RoomCreated struct {
	RoomID RoomID `json:"roomId"`
	Link   string `json:"link"`
}

type JoinSuccess struct {
	RoomID RoomID `json:"roomId"`
}

type RoomFull struct {
	Message string `json:"message"`
}

type BothPlayersJoined struct{}

type OpponentMoved struct{}

// Result is personalised: each side sees its own move first.
type Result struct {
	YourMove     game.Move    `json:"yourMove"`
	OpponentMove game.Move    `json:"opponentMove"`
	Result       game.Outcome `json:"result"`
}

type RematchRequested struct{}

type RematchAccepted struct{}

type OpponentLeft struct{}

type Error struct {
	Message string `json:"message"`
}

func (RoomCreated) Event() string       { return EventRoomCreated }
func (JoinSuccess) Event() string       { return EventJoinSuccess }
func (RoomFull) Event() string          { return EventRoomFull }
func (BothPlayersJoined) Event() string { return EventBothPlayersJoined }
func (OpponentMoved) Event() string     { return EventOpponentMoved }
func (Result) Event() string            { return EventResult }
func (RematchRequested) Event() string  { return EventRematchRequested }
func (RematchAccepted) Event() string   { return EventRematchAccepted }
func (OpponentLeft) Event() string      { return EventOpponentLeft }
func (Error) Event() string             { return EventError }

func (RoomCreated) outbound()       {}
func (JoinSuccess) outbound()       {}
func (RoomFull) outbound()          {}
func (BothPlayersJoined) outbound() {}
func (OpponentMoved) outbound()     {}
func (Result) outbound()            {}
func (RematchRequested) outbound()  {}
func (RematchAccepted) outbound()   {}
func (OpponentLeft) outbound()      {}
func (Error) outbound()             {}
