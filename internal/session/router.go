package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rps_rooms/internal/game"
	"rps_rooms/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const roomFullMessage = "Room is already full"

// Conn is the transport side of one connected participant.
type Conn interface {
	ID() ConnID
	// Deliver queues ev for the client and must not block.
	Deliver(ev Outbound)
}

// Router is the only component that talks to connections. Each inbound event
// maps to one registry, collector or rematch operation and one addressing
// pattern for the replies.
type Router struct {
	registry  *Registry
	moves     *MoveCollector
	rematch   *Rematch
	conns     map[ConnID]Conn
	linkBase  string
	publisher ResultPublisher
	tracer    trace.Tracer
	log       *slog.Logger
}

type RouterOption func(*Router)

// WithLinkBase sets the frontend URL share links are built from.
func WithLinkBase(base string) RouterOption {
	return func(r *Router) {
		r.linkBase = strings.TrimRight(base, "/")
	}
}

func WithPublisher(p ResultPublisher) RouterOption {
	return func(r *Router) {
		if p != nil {
			r.publisher = p
		}
	}
}

func NewRouter(opts ...RouterOption) *Router {
	registry := NewRegistry()
	moves := NewMoveCollector()

	r := &Router{
		registry:  registry,
		moves:     moves,
		rematch:   NewRematch(registry, moves),
		conns:     make(map[ConnID]Conn),
		publisher: nopPublisher{},
		tracer:    otel.Tracer("rps_rooms/session"),
		log:       logger.With("component", "router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach makes a connection addressable.
func (r *Router) Attach(c Conn) {
	r.conns[c.ID()] = c
	ConnectionsActive.Set(float64(len(r.conns)))
	r.log.Debug("connection attached", "conn", c.ID())
}

// Handle processes one inbound event to completion.
func (r *Router) Handle(ctx context.Context, from ConnID, ev Inbound) {
	ctx, span := r.tracer.Start(ctx, "session."+ev.Event(),
		trace.WithAttributes(attribute.String("conn.id", string(from))))
	defer span.End()

	EventsTotal.WithLabelValues(ev.Event()).Inc()

	switch e := ev.(type) {
	case CreateRoom:
		r.createRoom(ctx, from)
	case JoinRoom:
		r.joinRoom(ctx, from, e)
	case SubmitMove:
		r.submitMove(ctx, from, e)
	case RequestRematch:
		r.requestRematch(ctx, from, e)
	case AcceptRematch:
		r.acceptRematch(ctx, from, e)
	case Disconnect:
		r.disconnect(ctx, from)
	default:
		r.log.Warn("unhandled event", "conn", from, "event", ev.Event())
	}

	RoomsActive.Set(float64(r.registry.Len()))
}

// Sweep evicts abandoned rooms idle for longer than ttl.
func (r *Router) Sweep(ttl time.Duration) int {
	evicted := r.registry.Sweep(ttl)
	for _, id := range evicted {
		r.moves.Reset(id)
		r.log.Info("evicted idle room", "room", id)
	}

	RoomsEvicted.Add(float64(len(evicted)))
	RoomsActive.Set(float64(r.registry.Len()))
	return len(evicted)
}

func (r *Router) createRoom(ctx context.Context, from ConnID) {
	id := r.registry.CreateRoom(from)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("room.id", string(id)))

	logger.WithContext(ctx).Info("room created", "room", id, "conn", from)
	r.send(from, RoomCreated{RoomID: id, Link: r.link(id)})
}

func (r *Router) joinRoom(ctx context.Context, from ConnID, e JoinRoom) {
	if !r.validRoom(ctx, from, e.RoomID) {
		return
	}

	res, bothPresent := r.registry.JoinRoom(e.RoomID, from)
	if res == Full {
		logger.WithContext(ctx).Info("room full, join refused", "room", e.RoomID, "conn", from)
		r.send(from, RoomFull{Message: roomFullMessage})
		return
	}

	logger.WithContext(ctx).Info("joined room", "room", e.RoomID, "conn", from)
	r.send(from, JoinSuccess{RoomID: e.RoomID})

	if bothPresent {
		r.broadcast(e.RoomID, BothPlayersJoined{})
	}
}

func (r *Router) submitMove(ctx context.Context, from ConnID, e SubmitMove) {
	if !r.validRoom(ctx, from, e.RoomID) {
		return
	}

	move, err := game.ParseMove(e.Move)
	if err != nil {
		logger.WithContext(ctx).Warn("move rejected", "room", e.RoomID, "conn", from, "error", err)
		r.send(from, Error{Message: err.Error()})
		return
	}

	r.registry.Ensure(e.RoomID)
	res, resolved := r.moves.Submit(e.RoomID, from, move)
	logger.WithContext(ctx).Debug("move recorded", "room", e.RoomID, "conn", from, "pending", r.moves.Pending(e.RoomID))

	r.sendOthers(e.RoomID, from, OpponentMoved{})

	if !resolved {
		return
	}

	RoundsResolved.Inc()
	logger.WithContext(ctx).Info("round resolved",
		"room", e.RoomID,
		"a", res.A.Conn, "a_move", res.A.Move, "a_result", res.A.Outcome,
		"b", res.B.Conn, "b_move", res.B.Move, "b_result", res.B.Outcome)

	r.send(res.A.Conn, Result{YourMove: res.A.Move, OpponentMove: res.B.Move, Result: res.A.Outcome})
	r.send(res.B.Conn, Result{YourMove: res.B.Move, OpponentMove: res.A.Move, Result: res.B.Outcome})

	if err := r.publisher.PublishResult(ctx, res); err != nil {
		logger.WithContext(ctx).Warn("publish result failed", "room", e.RoomID, "error", err)
	}
}

func (r *Router) requestRematch(ctx context.Context, from ConnID, e RequestRematch) {
	if !r.validRoom(ctx, from, e.RoomID) {
		return
	}

	logger.WithContext(ctx).Info("rematch requested", "room", e.RoomID, "conn", from)
	for _, id := range r.rematch.Request(e.RoomID, from) {
		r.send(id, RematchRequested{})
	}
}

func (r *Router) acceptRematch(ctx context.Context, from ConnID, e AcceptRematch) {
	if !r.validRoom(ctx, from, e.RoomID) {
		return
	}

	logger.WithContext(ctx).Info("rematch accepted", "room", e.RoomID, "conn", from)
	for _, id := range r.rematch.Accept(e.RoomID) {
		r.send(id, RematchAccepted{})
	}
}

func (r *Router) disconnect(ctx context.Context, from ConnID) {
	r.moves.DropConn(from)

	for _, id := range r.registry.RoomsOf(from) {
		peer, left := r.registry.RemoveMember(id, from)
		logger.WithContext(ctx).Info("left room", "room", id, "conn", from)
		if left {
			r.send(peer, OpponentLeft{})
		}
	}

	delete(r.conns, from)
	ConnectionsActive.Set(float64(len(r.conns)))
}

func (r *Router) validRoom(ctx context.Context, from ConnID, id RoomID) bool {
	if strings.TrimSpace(string(id)) != "" {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("room.id", string(id)))
		return true
	}
	r.send(from, Error{Message: "roomId is required"})
	return false
}

func (r *Router) link(id RoomID) string {
	return r.linkBase + "/game/" + string(id)
}

func (r *Router) send(to ConnID, ev Outbound) {
	c, ok := r.conns[to]
	if !ok {
		r.log.Debug("drop event for unknown connection", "conn", to, "event", ev.Event())
		return
	}
	c.Deliver(ev)
}

func (r *Router) sendOthers(id RoomID, except ConnID, ev Outbound) {
	for _, m := range r.registry.Others(id, except) {
		r.send(m, ev)
	}
}

func (r *Router) broadcast(id RoomID, ev Outbound) {
	for _, m := range r.registry.Members(id) {
		r.send(m, ev)
	}
}
