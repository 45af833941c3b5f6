package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/constants"
)

// RequestLogger logs one line per request. Responses of 400 and above are warnings.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodOptions {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := log.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"method":  c.Request.Method,
			"path":    path,
			"ip":      c.ClientIP(),
		}
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		if c.Writer.Status() >= http.StatusBadRequest {
			entry.Warn("api request")
		} else {
			entry.Info("api request")
		}
	}
}
