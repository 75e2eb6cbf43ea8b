package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/printprobe/api/handler"
	"github.com/use-agent/printprobe/api/middleware"
	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/device"
	"github.com/use-agent/printprobe/metrics"
	"github.com/use-agent/printprobe/render"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and /metrics stay outside auth so probes and scrapers always work.
// m may be nil when metrics are disabled.
func NewRouter(reg *device.Registry, rd *render.Renderer, m *metrics.Metrics, cfg *config.Config, startTime time.Time, version string) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(reg, startTime, version))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/parse", handler.Parse())

	devices := protected.Group("/devices")
	devices.GET("", handler.ListDevices(reg))
	devices.GET("/:id", handler.GetDevice(reg))
	devices.POST("/:id/refresh", handler.RefreshDevice(reg))
	devices.GET("/:id/sensors", handler.Sensors(reg))
	devices.GET("/:id/sensors/:name", handler.Sensor(reg))
	devices.GET("/:id/page", handler.Page(reg, rd))

	return r
}
