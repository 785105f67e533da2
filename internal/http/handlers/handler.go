package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexText = "Rock-Paper-Scissors socket server is running"

// Handler serves the plain HTTP endpoints next to the sockets.
type Handler struct {
	// PublicURL is the front-end base that share links point at.
	PublicURL string
}

func NewHandler(publicURL string) *Handler {
	return &Handler{PublicURL: publicURL}
}

func (h *Handler) Index(c *gin.Context) {
	c.String(http.StatusOK, indexText)
}
