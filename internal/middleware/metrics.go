package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/metrics"
)

// Metrics returns middleware that captures request timing per route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
