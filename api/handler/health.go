package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/printprobe/device"
	"github.com/use-agent/printprobe/models"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports "degraded" when devices are configured but none answered its
// last refresh.
func Health(reg *device.Registry, startTime time.Time, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := reg.Stats()

		status := "healthy"
		if stats.Total > 0 && stats.Available == 0 {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Devices: stats,
			Version: version,
		})
	}
}
