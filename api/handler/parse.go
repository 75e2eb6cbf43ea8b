package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/printprobe/models"
	"github.com/use-agent/printprobe/parser"
)

// Parse returns a handler for POST /api/v1/parse. It extracts a record
// from markup supplied by the caller; nothing is fetched.
func Parse() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrCodeInvalidInput, err.Error()))
			return
		}

		start := time.Now()
		rec := parser.Parse(req.HTML, req.Source)
		c.JSON(http.StatusOK, models.ParseResponse{
			Success: true,
			Record:  rec,
			ParseMs: time.Since(start).Milliseconds(),
		})
	}
}
