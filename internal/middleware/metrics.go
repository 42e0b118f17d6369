package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/service"
)

// Metrics records per-request duration and counts, labelled by the
// route template rather than the raw URL to keep cardinality bounded.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
