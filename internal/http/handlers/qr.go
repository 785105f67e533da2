package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"rps_rooms/internal/logger"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 320
	minQRSize     = 128
	maxQRSize     = 1024
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RoomQR renders the share link of a room as a PNG QR code.
// GET /rooms/:id/qr?size=320
func (h *Handler) RoomQR(c *gin.Context) {
	id := c.Param("id")
	if !roomIDPattern.MatchString(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minQRSize || n > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 128 and 1024"})
			return
		}
		size = n
	}

	link := h.PublicURL + "/game/" + id
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		logger.Error("qr generation failed", "room", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
