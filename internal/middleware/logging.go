package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/agency-project-tracker/internal/constants"
	applogger "github.com/yukikurage/agency-project-tracker/internal/logger"
	"go.uber.org/zap"
)

// RequestLogger logs every request with a generated request id
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(constants.ContextKeyRequest, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.ClientIP()),
			zap.Int("status_code", status),
			zap.Int("response_size", c.Writer.Size()),
			zap.Duration("duration", duration),
		}
		log := logger
		if user, ok := GetCurrentUser(c); ok {
			log = applogger.WithUser(logger, user.ID, string(user.Role))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		msg := fmt.Sprintf("%s %-30s -> %3d (%s)",
			c.Request.Method,
			c.Request.URL.Path,
			status,
			duration.Truncate(time.Microsecond),
		)
		if status >= 500 {
			log.Error(msg, fields...)
			return
		}
		log.Info(msg, fields...)
	}
}
