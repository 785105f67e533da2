// Package sio serves the session hub over Socket.IO so the browser client can
// connect with its stock socket.io library.
package sio

import (
	"encoding/json"
	"log/slog"
	"time"

	"rps_rooms/internal/logger"
	"rps_rooms/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	pingInterval = 25 * time.Second
	pingTimeout  = 20 * time.Second
	maxBuffer    = 1 << 16
)

type Server struct {
	io   *socket.Server
	opts *socket.ServerOptions
	hub  *session.Hub
}

func NewServer(hub *session.Hub) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetServeClient(false)
	opts.SetPingInterval(pingInterval)
	opts.SetPingTimeout(pingTimeout)
	opts.SetMaxHttpBufferSize(maxBuffer)
	opts.SetTransports(types.NewSet("polling", "websocket"))

	s := &Server{
		io:   socket.NewServer(nil, nil),
		opts: opts,
		hub:  hub,
	}
	s.io.On("connection", s.onConnection)
	return s
}

// Mount registers the engine.io endpoints. CORS is left to the router.
func (s *Server) Mount(r gin.IRoutes) {
	h := gin.WrapH(s.io.ServeHandler(s.opts))
	r.GET("/socket.io/*f", h)
	r.POST("/socket.io/*f", h)
}

func (s *Server) Close() {
	s.io.Close(nil)
}

func (s *Server) onConnection(clients ...any) {
	client, ok := clients[0].(*socket.Socket)
	if !ok {
		return
	}

	c := &conn{
		socket: client,
		id:     session.ConnID(client.Id()),
	}
	c.log = logger.With("component", "sio", "conn", c.id)

	if !s.hub.Register(c) {
		c.log.Warn("hub stopped, dropping socket")
		client.Disconnect(true)
		return
	}
	c.log.Info("client connected")

	for _, name := range session.InboundEvents {
		client.On(name, s.onEvent(c, name))
	}

	client.On("disconnect", func(args ...any) {
		c.log.Info("client disconnected", "reason", args)
		s.hub.Unregister(c.id)
	})
}

func (s *Server) onEvent(c *conn, name string) func(args ...any) {
	return func(args ...any) {
		raw, err := firstArg(args)
		if err != nil {
			c.log.Debug("bad payload", "event", name, "error", err)
			c.Deliver(session.Error{Message: err.Error()})
			return
		}

		ev, err := session.DecodeInbound(name, raw)
		if err != nil {
			c.log.Debug("bad event", "event", name, "error", err)
			c.Deliver(session.Error{Message: err.Error()})
			return
		}

		s.hub.Dispatch(c.id, ev)
	}
}

// firstArg re-encodes the first data argument; a trailing ack callback is
// ignored.
func firstArg(args []any) (json.RawMessage, error) {
	for _, a := range args {
		if _, isAck := a.(socket.Ack); isAck {
			continue
		}
		return json.Marshal(a)
	}
	return nil, nil
}

type conn struct {
	socket *socket.Socket
	id     session.ConnID
	log    *slog.Logger
}

func (c *conn) ID() session.ConnID { return c.id }

// Deliver emits ev under its event name. Events without fields are emitted
// with no arguments.
func (c *conn) Deliver(ev session.Outbound) {
	args, err := emitArgs(ev)
	if err != nil {
		c.log.Error("encode event", "event", ev.Event(), "error", err)
		return
	}
	c.socket.Emit(ev.Event(), args...)
}

func emitArgs(ev session.Outbound) ([]any, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	return []any{payload}, nil
}
