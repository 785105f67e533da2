package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimit(2, time.Minute)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/test", l.Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, hit(r, "192.0.2.1:1000"))
	assert.Equal(t, http.StatusOK, hit(r, "192.0.2.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "192.0.2.1:1002"))

	// other clients have their own window
	assert.Equal(t, http.StatusOK, hit(r, "192.0.2.2:1000"))

	now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "192.0.2.1:1003"))
}

func TestMemoryRateLimitPrune(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimit(2, time.Minute)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(30 * time.Second)
	l.allow("b")

	now = now.Add(45 * time.Second)
	l.allow("c")

	assert.NotContains(t, l.clients, "a")
	assert.Contains(t, l.clients, "b")
}
