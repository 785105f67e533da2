package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestIndex(t *testing.T) {
	r := newEngine()
	r.GET("/", NewHandler("https://front.example").Index)

	w := serve(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rock-Paper-Scissors socket server is running", w.Body.String())
}

func TestRoomQR(t *testing.T) {
	r := newEngine()
	r.GET("/rooms/:id/qr", NewHandler("https://front.example").RoomQR)

	w := serve(r, "/rooms/abc123/qr")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusOK, serve(r, "/rooms/abc123/qr?size=512").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/rooms/abc123/qr?size=12").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/rooms/abc123/qr?size=big").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/rooms/a.b/qr").Code)
}

func TestReadiness(t *testing.T) {
	running := make(chan struct{})
	stopped := make(chan struct{})
	close(stopped)

	cases := []struct {
		name    string
		redis   RedisPinger
		hubDone chan struct{}
		code    int
		checks  map[string]string
	}{
		{"no redis", nil, running, http.StatusOK, map[string]string{"hub": "running", "redis": "disabled"}},
		{"redis up", fakePinger{}, running, http.StatusOK, map[string]string{"redis": "healthy"}},
		{"redis down", fakePinger{err: errors.New("dial tcp: refused")}, running, http.StatusServiceUnavailable, map[string]string{"redis": "unhealthy: dial tcp: refused"}},
		{"hub stopped", nil, stopped, http.StatusServiceUnavailable, map[string]string{"hub": "stopped"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine()
			r.GET("/readyz", NewHealthHandler(tc.redis, tc.hubDone, "test").Readiness)

			w := serve(r, "/readyz")
			assert.Equal(t, tc.code, w.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for k, v := range tc.checks {
				assert.Equal(t, v, body.Checks[k], k)
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	r := newEngine()
	r.GET("/healthz", NewHealthHandler(nil, nil, "test").Liveness)

	w := serve(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
