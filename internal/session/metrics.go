package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_events_total",
			Help: "Inbound session events handled by the router",
		},
		[]string{"event"},
	)
	RoomsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rps_rooms_active",
			Help: "Rooms currently held by the registry",
		},
	)
	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rps_connections_active",
			Help: "Connections currently attached to the router",
		},
	)
	RoundsResolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_rounds_resolved_total",
			Help: "Rounds resolved after both moves arrived",
		},
	)
	RoomsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_rooms_evicted_total",
			Help: "Abandoned rooms removed by the idle sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(RoomsActive)
	prometheus.MustRegister(ConnectionsActive)
	prometheus.MustRegister(RoundsResolved)
	prometheus.MustRegister(RoomsEvicted)
}
