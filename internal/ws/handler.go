package ws

import (
	"net/http"
	"slices"

	"rps_rooms/internal/logger"
	"rps_rooms/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Options struct {
	// AllowedOrigins lists the browser origins that may open a socket. An
	// empty list or "*" allows any origin.
	AllowedOrigins []string
	SendBuffer     int
}

func HandleWS(hub *session.Hub, opts Options) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: CheckOrigin(opts.AllowedOrigins),
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err, "origin", c.Request.Header.Get("Origin"))
			return
		}

		client := NewClient(conn, hub, opts.SendBuffer)
		go client.Run()
	}
}

// CheckOrigin accepts requests without an Origin header (non-browser
// clients) and those whose origin is on the allow-list.
func CheckOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}
