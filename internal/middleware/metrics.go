package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/service"
)

// Metrics observes every request under its route pattern. Unmatched paths share one
// label so that probing does not grow the series count.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, status, duration)
	}
}
