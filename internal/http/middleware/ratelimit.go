package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// MemoryRateLimit is the in-process fixed-window limiter used when Redis is
// not configured. Counts are per client IP and per process.
type MemoryRateLimit struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientInfo
	lastPrune time.Time
}

func NewMemoryRateLimit(maxRequests int, window time.Duration) *MemoryRateLimit {
	return &MemoryRateLimit{
		max:     maxRequests,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientInfo),
	}
}

func (l *MemoryRateLimit) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

func (l *MemoryRateLimit) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > l.window {
		l.prune(now)
	}

	ci, ok := l.clients[ip]
	if !ok || now.Sub(ci.start) > l.window {
		l.clients[ip] = &clientInfo{start: now, count: 1}
		return true
	}

	ci.count++
	return ci.count <= l.max
}

// prune drops expired windows; l.mu must be held.
func (l *MemoryRateLimit) prune(now time.Time) {
	l.lastPrune = now
	for ip, ci := range l.clients {
		if now.Sub(ci.start) > l.window {
			delete(l.clients, ip)
		}
	}
}
