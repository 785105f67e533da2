package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomAddsCreator(t *testing.T) {
	reg := NewRegistry()

	id := reg.CreateRoom("x")
	assert.Len(t, string(id), roomIDLength)
	assert.Equal(t, []ConnID{"x"}, reg.Members(id))
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	reg := NewRegistry()
	ids := []RoomID{"aaaaaa", "aaaaaa", "bbbbbb"}
	reg.newID = func() RoomID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first := reg.CreateRoom("x")
	second := reg.CreateRoom("y")

	assert.Equal(t, RoomID("aaaaaa"), first)
	assert.Equal(t, RoomID("bbbbbb"), second)
	assert.Equal(t, []ConnID{"x"}, reg.Members(first))
	assert.Equal(t, []ConnID{"y"}, reg.Members(second))
}

func TestJoinRoomSignalsBothPresentOnce(t *testing.T) {
	reg := NewRegistry()

	res, both := reg.JoinRoom("r", "x")
	assert.Equal(t, Joined, res)
	assert.False(t, both)

	res, both = reg.JoinRoom("r", "y")
	assert.Equal(t, Joined, res)
	assert.True(t, both)

	res, both = reg.JoinRoom("r", "z")
	assert.Equal(t, Full, res)
	assert.False(t, both)
	assert.Equal(t, []ConnID{"x", "y"}, reg.Members("r"))
}

func TestJoinRoomFullStaysAtTwo(t *testing.T) {
	reg := NewRegistry()
	reg.JoinRoom("r", "x")
	reg.JoinRoom("r", "y")

	for _, c := range []ConnID{"z", "w", "x"} {
		res, _ := reg.JoinRoom("r", c)
		require.Equal(t, Full, res)
	}
	assert.Len(t, reg.Members("r"), 2)
}

func TestJoinRoomTwiceBySameConn(t *testing.T) {
	reg := NewRegistry()
	reg.JoinRoom("r", "x")

	res, both := reg.JoinRoom("r", "x")
	assert.Equal(t, Joined, res)
	assert.False(t, both)
	assert.Equal(t, []ConnID{"x"}, reg.Members("r"))
}

func TestRemoveMember(t *testing.T) {
	reg := NewRegistry()
	reg.JoinRoom("r", "x")
	reg.JoinRoom("r", "y")

	peer, left := reg.RemoveMember("r", "x")
	assert.True(t, left)
	assert.Equal(t, ConnID("y"), peer)

	_, left = reg.RemoveMember("r", "x")
	assert.False(t, left, "removing a non-member is a no-op")

	_, left = reg.RemoveMember("r", "y")
	assert.False(t, left, "nobody is left to notify")
	assert.Empty(t, reg.Members("r"))
	assert.True(t, reg.Exists("r"))

	_, left = reg.RemoveMember("missing", "x")
	assert.False(t, left)
}

func TestOthersAndRoomsOf(t *testing.T) {
	reg := NewRegistry()
	reg.JoinRoom("b", "x")
	reg.JoinRoom("a", "x")
	reg.JoinRoom("a", "y")

	assert.Equal(t, []ConnID{"y"}, reg.Others("a", "x"))
	assert.Equal(t, []ConnID{"x", "y"}, reg.Others("a", "nobody"))
	assert.Equal(t, []RoomID{"a", "b"}, reg.RoomsOf("x"))
	assert.Empty(t, reg.RoomsOf("nobody"))
}

func TestSweepEvictsOnlyIdleEmptyRooms(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry()
	reg.now = func() time.Time { return now }

	reg.JoinRoom("occupied", "x")
	reg.Ensure("empty-old")
	reg.JoinRoom("left", "y")
	reg.RemoveMember("left", "y")

	now = now.Add(30 * time.Minute)
	reg.Ensure("empty-new")

	now = now.Add(45 * time.Minute)
	evicted := reg.Sweep(time.Hour)

	assert.Equal(t, []RoomID{"empty-old", "left"}, evicted)
	assert.True(t, reg.Exists("occupied"))
	assert.True(t, reg.Exists("empty-new"))
	assert.Equal(t, 2, reg.Len())
}

func TestRandomRoomIDAlphabet(t *testing.T) {
	for range 50 {
		id := randomRoomID()
		require.Len(t, string(id), roomIDLength)
		for _, ch := range string(id) {
			assert.Contains(t, roomIDChars, string(ch))
		}
	}
}
