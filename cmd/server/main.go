package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rps_rooms/internal/broker"
	"rps_rooms/internal/config"
	httpServer "rps_rooms/internal/http"
	"rps_rooms/internal/logger"
	"rps_rooms/internal/session"
	"rps_rooms/internal/sio"
	"rps_rooms/internal/telemetry"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

const (
	releaseVersion  = "1.0.0"
	serviceName     = "rps-rooms"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	opts := []session.RouterOption{session.WithLinkBase(cfg.PublicURL)}
	if cfg.NATSURL != "" {
		pub, closeNATS, err := broker.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return err
		}
		defer closeNATS()
		opts = append(opts, session.WithPublisher(pub))
		logger.Info("publishing results to nats", "subject", cfg.NATSSubject)
	}

	rdb := connectRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := session.NewHub(session.NewRouter(opts...), session.HubConfig{
		SweepInterval: cfg.RoomSweepInterval,
		IdleTTL:       cfg.RoomIdleTTL,
	})
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	var sioServer *sio.Server
	if cfg.SocketIOEnabled {
		sioServer = sio.NewServer(hub)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Hub:         hub,
		SocketIO:    sioServer,
		Redis:       rdb,
		PublicURL:   cfg.PublicURL,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
		SendBuffer:  cfg.SendBuffer,
		Version:     releaseVersion,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "socketio", cfg.SocketIOEnabled, "version", releaseVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sioServer != nil {
		sioServer.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	stopHub()
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
	}

	logger.Info("server exited")
	return nil
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// server then falls back to the in-process rate limiter.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiter", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}

	logger.Info("redis connected", "addr", cfg.RedisAddr)
	return rdb
}
