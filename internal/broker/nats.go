package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rps_rooms/internal/logger"
	"rps_rooms/internal/session"

	"github.com/nats-io/nats.go"
)

// publisher is the part of *nats.Conn the result publisher needs.
type publisher interface {
	Publish(subject string, data []byte) error
}

type PlayerResult struct {
	ConnID string `json:"connId"`
	Move   string `json:"move"`
	Result string `json:"result"`
}

// ResultMessage is published once per resolved round.
type ResultMessage struct {
	RoomID     string         `json:"roomId"`
	Players    []PlayerResult `json:"players"`
	ResolvedAt time.Time      `json:"resolvedAt"`
}

type ResultPublisher struct {
	conn    publisher
	subject string
	now     func() time.Time
}

// Connect dials NATS and returns a publisher for subject plus a close func
// that drains the connection.
func Connect(url, subject string) (*ResultPublisher, func(), error) {
	nc, err := nats.Connect(url,
		nats.Name("rps-rooms"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect %s: %w", url, err)
	}

	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("nats drain", "error", err)
			nc.Close()
		}
	}
	return NewResultPublisher(nc, subject), closeFn, nil
}

func NewResultPublisher(conn publisher, subject string) *ResultPublisher {
	return &ResultPublisher{conn: conn, subject: subject, now: time.Now}
}

func (p *ResultPublisher) PublishResult(_ context.Context, res session.Resolution) error {
	data, err := json.Marshal(p.message(res))
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

func (p *ResultPublisher) message(res session.Resolution) ResultMessage {
	return ResultMessage{
		RoomID: string(res.RoomID),
		Players: []PlayerResult{
			toPlayer(res.A),
			toPlayer(res.B),
		},
		ResolvedAt: p.now().UTC(),
	}
}

func toPlayer(p session.Play) PlayerResult {
	return PlayerResult{
		ConnID: string(p.Conn),
		Move:   string(p.Move),
		Result: string(p.Outcome),
	}
}
