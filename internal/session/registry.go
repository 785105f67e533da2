package session

import (
	"crypto/rand"
	"slices"
	"time"
)

const (
	MaxMembers   = 2
	roomIDLength = 6
	roomIDChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// JoinResult tells the router how to answer a join request.
type JoinResult int

const (
	Joined JoinResult = iota
	Full
)

type room struct {
	id         RoomID
	members    []ConnID
	lastActive time.Time
}

// Registry owns room existence and membership. It is not safe for concurrent
// use; the Hub serialises every call.
type Registry struct {
	rooms map[RoomID]*room
	newID func() RoomID
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[RoomID]*room),
		newID: randomRoomID,
		now:   time.Now,
	}
}

// CreateRoom registers conn as the first member of a room with a fresh id.
func (r *Registry) CreateRoom(conn ConnID) RoomID {
	id := r.newID()
	for r.rooms[id] != nil {
		id = r.newID()
	}

	rm := r.ensure(id)
	rm.members = append(rm.members, conn)
	return id
}

// Ensure creates the room if it does not exist yet and marks it active.
func (r *Registry) Ensure(id RoomID) {
	r.ensure(id)
}

func (r *Registry) ensure(id RoomID) *room {
	rm, ok := r.rooms[id]
	if !ok {
		rm = &room{id: id}
		r.rooms[id] = rm
	}
	rm.lastActive = r.now()
	return rm
}

// JoinRoom adds conn to the room. A room that already holds MaxMembers
// connections refuses the join. bothPresent is true only for the join that
// takes the room from one member to two.
func (r *Registry) JoinRoom(id RoomID, conn ConnID) (res JoinResult, bothPresent bool) {
	rm := r.ensure(id)
	if len(rm.members) >= MaxMembers {
		return Full, false
	}
	if slices.Contains(rm.members, conn) {
		return Joined, false
	}

	rm.members = append(rm.members, conn)
	return Joined, len(rm.members) == MaxMembers
}

// RemoveMember drops conn from the room. When exactly one member is left it
// is returned with peerLeft set. Removing a non-member is a no-op.
func (r *Registry) RemoveMember(id RoomID, conn ConnID) (peer ConnID, peerLeft bool) {
	rm, ok := r.rooms[id]
	if !ok {
		return "", false
	}

	i := slices.Index(rm.members, conn)
	if i < 0 {
		return "", false
	}
	rm.members = slices.Delete(rm.members, i, i+1)
	rm.lastActive = r.now()

	if len(rm.members) == 1 {
		return rm.members[0], true
	}
	return "", false
}

// Members returns a copy of the room's members in join order.
func (r *Registry) Members(id RoomID) []ConnID {
	rm, ok := r.rooms[id]
	if !ok {
		return nil
	}
	return slices.Clone(rm.members)
}

// Others returns every member of the room except conn.
func (r *Registry) Others(id RoomID, conn ConnID) []ConnID {
	rm, ok := r.rooms[id]
	if !ok {
		return nil
	}

	out := make([]ConnID, 0, len(rm.members))
	for _, m := range rm.members {
		if m != conn {
			out = append(out, m)
		}
	}
	return out
}

// RoomsOf lists, in sorted order, every room conn belongs to.
func (r *Registry) RoomsOf(conn ConnID) []RoomID {
	var out []RoomID
	for id, rm := range r.rooms {
		if slices.Contains(rm.members, conn) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func (r *Registry) Exists(id RoomID) bool {
	_, ok := r.rooms[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.rooms)
}

// Sweep removes rooms that have no members and have been idle for longer
// than ttl, returning their ids.
func (r *Registry) Sweep(ttl time.Duration) []RoomID {
	cutoff := r.now().Add(-ttl)

	var evicted []RoomID
	for id, rm := range r.rooms {
		if len(rm.members) == 0 && rm.lastActive.Before(cutoff) {
			delete(r.rooms, id)
			evicted = append(evicted, id)
		}
	}
	slices.Sort(evicted)
	return evicted
}

func randomRoomID() RoomID {
	buf := make([]byte, roomIDLength)
	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(buf)

	out := make([]byte, roomIDLength)
	for i := range out {
		out[i] = roomIDChars[int(buf[i])%len(roomIDChars)]
	}
	return RoomID(out)
}
