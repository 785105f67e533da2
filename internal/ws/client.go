package ws

import (
	"log/slog"
	"time"

	"rps_rooms/internal/logger"
	"rps_rooms/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096

	defaultSendBuffer = 64
)

// Client is one WebSocket connection attached to the hub.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte

	id   session.ConnID
	hub  *session.Hub
	done chan struct{}
	log  *slog.Logger
}

func NewClient(conn *websocket.Conn, hub *session.Hub, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	id := session.ConnID(uuid.NewString())

	return &Client{
		id:   id,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
		hub:  hub,
		done: make(chan struct{}),
		log:  logger.With("component", "ws", "conn", id),
	}
}

// Run registers the client and pumps messages until the connection closes.
func (c *Client) Run() {
	if !c.hub.Register(c) {
		c.log.Warn("hub stopped, closing connection")
		_ = c.Conn.Close()
		return
	}
	c.log.Info("client connected", "remote", c.Conn.RemoteAddr().String())

	go c.writePump()
	c.readPump()
}

func (c *Client) ID() session.ConnID { return c.id }

// Deliver never blocks the hub: when the send buffer is full the event is
// dropped.
func (c *Client) Deliver(ev session.Outbound) {
	data, err := Encode(ev)
	if err != nil {
		c.log.Error("encode event", "event", ev.Event(), "error", err)
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.Send <- data:
	default:
		c.log.Warn("send buffer full, dropping event", "event", ev.Event())
	}
}

//read
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.id)
		close(c.done)
		_ = c.Conn.Close()
		c.log.Info("client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("read error", "error", err)
			}
			return
		}

		ev, err := Decode(raw)
		if err != nil {
			c.log.Debug("bad frame", "error", err)
			c.Deliver(session.Error{Message: err.Error()})
			continue
		}

		if !c.hub.Dispatch(c.id, ev) {
			return
		}
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
