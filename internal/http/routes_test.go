package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rps_rooms/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, d Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := session.NewHub(session.NewRouter(), session.HubConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})

	d.Hub = hub
	if d.RateLimit == 0 {
		d.RateLimit = 100
		d.RateWindow = time.Minute
	}

	r := gin.New()
	RegisterRoutes(r, d)
	return r
}

func request(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "192.0.2.7:5000"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	r := newEngine(t, Deps{PublicURL: "https://front.example", CORSOrigins: []string{"https://front.example"}})

	w := request(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rock-Paper-Scissors socket server is running", w.Body.String())

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/rooms/abc123/qr", nil).Code)

	w = request(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rps_rooms_active")
}

func TestCORS(t *testing.T) {
	r := newEngine(t, Deps{CORSOrigins: []string{"https://front.example"}})

	w := request(r, http.MethodOptions, "/", map[string]string{
		"Origin":                        "https://front.example",
		"Access-Control-Request-Method": "GET",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://front.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSocketRateLimit(t *testing.T) {
	r := newEngine(t, Deps{RateLimit: 2, RateWindow: time.Minute})

	// plain GETs fail the upgrade but still count
	assert.Equal(t, http.StatusBadRequest, request(r, http.MethodGet, "/ws", nil).Code)
	assert.Equal(t, http.StatusBadRequest, request(r, http.MethodGet, "/ws", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, request(r, http.MethodGet, "/ws", nil).Code)

	// requests inside an established session are not throttled
	assert.Equal(t, http.StatusBadRequest, request(r, http.MethodGet, "/ws?sid=abc", nil).Code)

	// health endpoints sit outside the limiter
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/healthz", nil).Code)
}
