package session

// ConnID identifies one connected participant for the lifetime of its
// connection. Transports assign it; it is never reused.
type ConnID string

// RoomID identifies a room. Generated ids are short and random; callers may
// also join a room under any id they choose.
type RoomID string

const (
	// client - server
	EventCreateRoom     = "createRoom"
	EventJoinRoom       = "joinRoom"
	EventMove           = "move"
	EventRequestRematch = "requestRematch"
	EventAcceptRematch  = "acceptRematch"
	EventDisconnect     = "disconnect"

	// server - client
	EventRoomCreated       = "roomCreated"
	EventJoinSuccess       = "joinSuccess"
	EventRoomFull          = "roomFull"
	EventBothPlayersJoined = "bothPlayersJoined"
	EventOpponentMoved     = "opponentMoved"
	EventResult            = "result"
	EventRematchRequested  = "rematchRequested"
	EventRematchAccepted   = "rematchAccepted"
	EventOpponentLeft      = "opponentLeft"
	EventError             = "error"
)

// InboundEvents lists the event names a client may send.
var InboundEvents = []string{
	EventCreateRoom,
	EventJoinRoom,
	EventMove,
	EventRequestRematch,
	EventAcceptRematch,
}
