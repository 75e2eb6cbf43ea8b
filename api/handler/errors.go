package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/printprobe/models"
)

// abortWith writes a structured JSON error with the status for code.
func abortWith(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(mapErrorToStatus(code), models.NewErrorResponse(code, message))
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(code string) int {
	switch code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeUnreachable, models.ErrCodeHTTPStatus, models.ErrCodeReadFailed:
		return http.StatusBadGateway // 502
	case models.ErrCodeUnavailable:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
