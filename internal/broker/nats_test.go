package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"rps_rooms/internal/game"
	"rps_rooms/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func TestPublishResult(t *testing.T) {
	conn := &fakeConn{}
	p := NewResultPublisher(conn, "rps.results")
	p.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	err := p.PublishResult(context.Background(), session.Resolution{
		RoomID: "abc123",
		A:      session.Play{Conn: "x", Move: game.Rock, Outcome: game.Win},
		B:      session.Play{Conn: "y", Move: game.Scissors, Outcome: game.Lose},
	})
	require.NoError(t, err)

	assert.Equal(t, "rps.results", conn.subject)
	assert.JSONEq(t, `{
		"roomId": "abc123",
		"players": [
			{"connId": "x", "move": "rock", "result": "win"},
			{"connId": "y", "move": "scissors", "result": "lose"}
		],
		"resolvedAt": "2025-03-01T12:00:00Z"
	}`, string(conn.data))
}

func TestPublishResultError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	p := NewResultPublisher(conn, "rps.results")

	err := p.PublishResult(context.Background(), session.Resolution{RoomID: "abc123"})
	assert.ErrorContains(t, err, "publish rps.results")
}
