package session

// Rematch runs the request/accept handshake. It keeps no state of its own:
// an accept is honoured whether or not a request preceded it.
type Rematch struct {
	registry *Registry
	moves    *MoveCollector
}

func NewRematch(registry *Registry, moves *MoveCollector) *Rematch {
	return &Rematch{registry: registry, moves: moves}
}

// Request returns the members that should be told about the request.
func (r *Rematch) Request(id RoomID, requester ConnID) []ConnID {
	return r.registry.Others(id, requester)
}

// Accept clears the room's pending moves and returns every member, accepter
// included, to notify.
func (r *Rematch) Accept(id RoomID) []ConnID {
	r.moves.Reset(id)
	return r.registry.Members(id)
}
