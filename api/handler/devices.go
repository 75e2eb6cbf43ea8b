package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/printprobe/device"
	"github.com/use-agent/printprobe/models"
	"github.com/use-agent/printprobe/render"
)

// lookupDevice resolves the :id path parameter, writing a 404 when the
// device is not configured.
func lookupDevice(c *gin.Context, reg *device.Registry) (*device.Session, bool) {
	s, ok := reg.Get(c.Param("id"))
	if !ok {
		abortWith(c, models.ErrCodeNotFound, "unknown device: "+c.Param("id"))
	}
	return s, ok
}

// ListDevices returns a handler for GET /api/v1/devices.
func ListDevices(reg *device.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions := reg.List()
		devices := make([]models.DeviceStatus, 0, len(sessions))
		for _, s := range sessions {
			devices = append(devices, s.Status())
		}
		c.JSON(http.StatusOK, models.DeviceListResponse{Success: true, Devices: devices})
	}
}

// GetDevice returns a handler for GET /api/v1/devices/:id.
func GetDevice(reg *device.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupDevice(c, reg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, models.DeviceResponse{Success: true, Device: s.Status()})
	}
}

// RefreshDevice returns a handler for POST /api/v1/devices/:id/refresh.
//
// The refresh runs synchronously. A device that does not answer is not an
// API error: the response carries available=false and last_error.
func RefreshDevice(reg *device.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupDevice(c, reg)
		if !ok {
			return
		}

		var req models.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrCodeInvalidInput, err.Error()))
			return
		}

		if req.Usage != nil {
			s.RefreshWithUsage(c.Request.Context(), *req.Usage)
		} else {
			s.Refresh(c.Request.Context())
		}
		c.JSON(http.StatusOK, models.DeviceResponse{Success: true, Device: s.Status()})
	}
}

// Sensors returns a handler for GET /api/v1/devices/:id/sensors.
func Sensors(reg *device.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupDevice(c, reg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, models.SensorsResponse{
			Success:  true,
			DeviceID: s.ID(),
			Sensors:  s.Sensors(),
		})
	}
}

// Sensor returns a handler for GET /api/v1/devices/:id/sensors/:name.
// Besides catalog sensors it serves any field Session.Get understands.
func Sensor(reg *device.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupDevice(c, reg)
		if !ok {
			return
		}
		name := c.Param("name")

		reading, ok := s.Sensor(name)
		if !ok {
			v, found := s.Get(name)
			if !found {
				abortWith(c, models.ErrCodeNotFound, "no value for "+name)
				return
			}
			reading = models.SensorReading{Key: name, Value: v}
		}
		c.JSON(http.StatusOK, models.SensorResponse{
			Success:  true,
			DeviceID: s.ID(),
			Sensor:   reading,
		})
	}
}

// Page returns a handler for GET /api/v1/devices/:id/page. It renders the
// markup of the last successful refresh.
func Page(reg *device.Registry, rd *render.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupDevice(c, reg)
		if !ok {
			return
		}

		var q models.PageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrCodeInvalidInput, err.Error()))
			return
		}
		q.Defaults()

		markup, ok := s.Page()
		if !ok {
			abortWith(c, models.ErrCodeNotFound, "no page fetched from "+s.ID()+" yet")
			return
		}

		content, err := rd.Render(markup, q.Format, q.Selector, s.BaseURL())
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrCodeInvalidInput, err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.PageResponse{
			Success:  true,
			DeviceID: s.ID(),
			Format:   q.Format,
			Content:  content,
		})
	}
}
