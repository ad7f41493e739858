package ui

import (
	"strings"
	"time"

	"heartdash/internal"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request through the application logger
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		switch {
		case status >= 500:
			logger.Warn("%s %s -> %d (%v)", c.Request.Method, path, status, elapsed)
		case path == "/healthz" || strings.HasPrefix(path, "/static/"):
			logger.Trace("%s %s -> %d (%v)", c.Request.Method, path, status, elapsed)
		default:
			logger.Debug("%s %s -> %d (%v)", c.Request.Method, path, status, elapsed)
		}
	}
}
