package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"btc-barometer/internal/cache"
	"btc-barometer/internal/db"
)

var startedAt = time.Now()

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Status godoc
// @Summary      Service status
// @Description  Reports uptime and which backing services are connected
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(startedAt).Seconds()),
		"redis":          cache.Client != nil,
		"postgres":       db.Pool != nil,
	})
}
