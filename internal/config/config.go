package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"3001"`
	// PublicURL is the front-end origin used to build share links.
	PublicURL   string   `env:"PUBLIC_URL" envDefault:"https://rps-front-liart.vercel.app"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"https://rps-front-liart.vercel.app,http://localhost:5173"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	// Redis is optional; without it the rate limiter and readiness check
	// are skipped.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RateLimit     int           `env:"RATE_LIMIT" envDefault:"60"`
	RateWindow    time.Duration `env:"RATE_WINDOW" envDefault:"1m"`

	RoomIdleTTL       time.Duration `env:"ROOM_IDLE_TTL" envDefault:"1h"`
	RoomSweepInterval time.Duration `env:"ROOM_SWEEP_INTERVAL" envDefault:"10m"`
	SendBuffer        int           `env:"SEND_BUFFER" envDefault:"64"`

	NATSURL     string `env:"NATS_URL"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"rps.results"`

	OTelEndpoint    string `env:"OTEL_ENDPOINT"`
	SocketIOEnabled bool   `env:"SOCKETIO_ENABLED" envDefault:"true"`
}

// Load reads .env (if present) and the environment. The result is not
// validated; callers apply their overrides and then call Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")

	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
}

func (c *Config) Validate() error {
	var errs []error

	if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1-65535 inclusive, got %q", c.Port))
	}
	if u, err := url.Parse(c.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PUBLIC_URL %q is not an absolute url", c.PublicURL))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit))
	}
	if c.RateWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateWindow))
	}
	if c.RoomIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("ROOM_IDLE_TTL must be positive, got %s", c.RoomIdleTTL))
	}
	if c.RoomSweepInterval < 0 {
		errs = append(errs, fmt.Errorf("ROOM_SWEEP_INTERVAL must not be negative, got %s", c.RoomSweepInterval))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("SEND_BUFFER must be positive, got %d", c.SendBuffer))
	}
	if c.NATSURL != "" && c.NATSSubject == "" {
		errs = append(errs, errors.New("NATS_SUBJECT is required when NATS_URL is set"))
	}

	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
