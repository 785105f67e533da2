package session

import (
	"slices"

	"rps_rooms/internal/game"
)

// Play is one side of a resolved round.
type Play struct {
	Conn    ConnID
	Move    game.Move
	Outcome game.Outcome
}

// Resolution is produced once per round, when two moves are present.
type Resolution struct {
	RoomID RoomID
	A, B   Play
}

// round keeps submissions in the order connections first moved.
type round struct {
	order []ConnID
	moves map[ConnID]game.Move
}

// MoveCollector owns the pending moves of each room's current round. Like
// Registry it relies on the Hub for serialisation.
type MoveCollector struct {
	pending map[RoomID]*round
}

func NewMoveCollector() *MoveCollector {
	return &MoveCollector{pending: make(map[RoomID]*round)}
}

// Submit records conn's move, replacing any earlier move it made this round.
// Once two moves are present the two earliest are resolved and removed, which
// starts a fresh round.
func (c *MoveCollector) Submit(id RoomID, conn ConnID, move game.Move) (Resolution, bool) {
	rd, ok := c.pending[id]
	if !ok {
		rd = &round{moves: make(map[ConnID]game.Move)}
		c.pending[id] = rd
	}

	if _, moved := rd.moves[conn]; !moved {
		rd.order = append(rd.order, conn)
	}
	rd.moves[conn] = move

	if len(rd.order) < 2 {
		return Resolution{}, false
	}

	a, b := rd.order[0], rd.order[1]
	moveA, moveB := rd.moves[a], rd.moves[b]
	outA, outB := game.Resolve(moveA, moveB)

	rd.order = rd.order[2:]
	delete(rd.moves, a)
	delete(rd.moves, b)
	if len(rd.order) == 0 {
		delete(c.pending, id)
	}

	return Resolution{
		RoomID: id,
		A:      Play{Conn: a, Move: moveA, Outcome: outA},
		B:      Play{Conn: b, Move: moveB, Outcome: outB},
	}, true
}

// Reset discards every pending move for the room.
func (c *MoveCollector) Reset(id RoomID) {
	delete(c.pending, id)
}

// DropConn removes conn's pending move from every room and reports which
// rooms were affected.
func (c *MoveCollector) DropConn(conn ConnID) []RoomID {
	var touched []RoomID
	for id, rd := range c.pending {
		if _, ok := rd.moves[conn]; !ok {
			continue
		}
		delete(rd.moves, conn)
		rd.order = slices.DeleteFunc(rd.order, func(x ConnID) bool { return x == conn })
		if len(rd.order) == 0 {
			delete(c.pending, id)
		}
		touched = append(touched, id)
	}
	slices.Sort(touched)
	return touched
}

// Pending reports how many moves the room's current round holds.
func (c *MoveCollector) Pending(id RoomID) int {
	rd, ok := c.pending[id]
	if !ok {
		return 0
	}
	return len(rd.order)
}

// Move returns conn's pending move in the room, if any.
func (c *MoveCollector) Move(id RoomID, conn ConnID) (game.Move, bool) {
	rd, ok := c.pending[id]
	if !ok {
		return "", false
	}
	m, ok := rd.moves[conn]
	return m, ok
}
