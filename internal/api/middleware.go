package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/logger"
)

// requestIDMiddleware adds a unique request ID to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware logs each request with its duration and status
func loggingMiddleware() gin.HandlerFunc {
	log := logger.AppLogger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("handled request")
	}
}

// statusForError maps application error codes to HTTP status codes
func statusForError(err error) int {
	switch apperrors.GetErrorCode(err) {
	case apperrors.CodeEndpointNotConfigured, apperrors.CodeDuplicateEndpoint:
		return http.StatusConflict
	case apperrors.CodeIndexOutOfRange, apperrors.CodeNoCurrentEndpoint, apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeRemoteCall, apperrors.CodeServiceUnavailable, apperrors.CodeRateLimited:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes a uniform error response
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusForError(err), ErrorResponse{
		Error:   string(apperrors.GetErrorCode(err)),
		Message: err.Error(),
	})
}
