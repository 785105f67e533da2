package http

import (
	"time"

	"rps_rooms/internal/http/handlers"
	"rps_rooms/internal/http/middleware"
	"rps_rooms/internal/session"
	"rps_rooms/internal/sio"
	"rps_rooms/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

type Deps struct {
	Hub *session.Hub
	// SocketIO is nil when the Socket.IO transport is disabled.
	SocketIO *sio.Server
	// Redis is nil when not configured; the in-process limiter is used then.
	Redis *redis.Client

	PublicURL   string
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
	SendBuffer  int
	Version     string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	h := handlers.NewHandler(d.PublicURL)
	var pinger handlers.RedisPinger
	if d.Redis != nil {
		pinger = d.Redis
	}
	healthHandler := handlers.NewHealthHandler(pinger, d.Hub.Done(), d.Version)

	// Health checks (no rate limiting)
	r.GET("/", h.Index)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/rooms/:id/qr", h.RoomQR)

	// Sockets: only new connections count against the limiter.
	sockets := r.Group("/")
	sockets.Use(handshakesOnly(rateLimiter(d)))

	sockets.GET("/ws", ws.HandleWS(d.Hub, ws.Options{
		AllowedOrigins: d.CORSOrigins,
		SendBuffer:     d.SendBuffer,
	}))

	if d.SocketIO != nil {
		d.SocketIO.Mount(sockets)
	}
}

func rateLimiter(d Deps) gin.HandlerFunc {
	if d.Redis != nil {
		return middleware.RedisRateLimit(d.Redis, d.RateLimit, d.RateWindow)
	}
	return middleware.NewMemoryRateLimit(d.RateLimit, d.RateWindow).Handler()
}

// handshakesOnly skips requests that belong to an established engine.io
// session (they carry a sid), so long-polling clients are not throttled.
func handshakesOnly(limit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("sid") != "" {
			c.Next()
			return
		}
		limit(c)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowCredentials = true

	if len(origins) == 0 {
		cfg.AllowCredentials = false
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowCredentials = false
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
