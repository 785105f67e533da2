package session

import (
	"context"
	"time"

	"rps_rooms/internal/logger"
)

const inboxSize = 256

// envelope is either a registration (conn set) or an event from a connection.
type envelope struct {
	conn Conn
	from ConnID
	ev   Inbound
}

// Hub runs the router on a single goroutine. Registrations and events share
// one inbox, so a connection is always attached before its first event is
// handled and each connection's events are handled in arrival order.
type Hub struct {
	router        *Router
	inbox         chan envelope
	done          chan struct{}
	sweepInterval time.Duration
	idleTTL       time.Duration
}

type HubConfig struct {
	// SweepInterval is how often abandoned rooms are looked for; zero
	// disables the sweep.
	SweepInterval time.Duration
	// IdleTTL is how long an empty room is kept after its last activity.
	IdleTTL time.Duration
}

func NewHub(router *Router, cfg HubConfig) *Hub {
	return &Hub{
		router:        router,
		inbox:         make(chan envelope, inboxSize),
		done:          make(chan struct{}),
		sweepInterval: cfg.SweepInterval,
		idleTTL:       cfg.IdleTTL,
	}
}

// Run handles events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var sweep <-chan time.Time
	if h.sweepInterval > 0 {
		ticker := time.NewTicker(h.sweepInterval)
		defer ticker.Stop()
		sweep = ticker.C
	}

	logger.Info("hub started", "sweep_interval", h.sweepInterval, "idle_ttl", h.idleTTL)

	for {
		select {
		case env := <-h.inbox:
			if env.conn != nil {
				h.router.Attach(env.conn)
				continue
			}
			h.router.Handle(ctx, env.from, env.ev)

		case <-sweep:
			h.router.Sweep(h.idleTTL)

		case <-ctx.Done():
			logger.Info("hub stopped")
			return
		}
	}
}

// Register attaches c. It reports false once the hub has stopped; see
// enqueue for what true guarantees.
func (h *Hub) Register(c Conn) bool {
	return h.enqueue(envelope{conn: c})
}

// Dispatch queues an event from a connection. It reports false once the hub
// has stopped; see enqueue for what true guarantees.
func (h *Hub) Dispatch(from ConnID, ev Inbound) bool {
	return h.enqueue(envelope{from: from, ev: ev})
}

// Unregister tells the router the connection is gone.
func (h *Hub) Unregister(id ConnID) bool {
	return h.Dispatch(id, Disconnect{})
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// enqueue is best-effort around shutdown: false means env was dropped, true
// only means it was queued. An event queued just before Run returns is never
// handled.
func (h *Hub) enqueue(env envelope) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.inbox <- env:
		return true
	case <-h.done:
		return false
	}
}
