package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antqd/davveroo/monitoring"
)

// Metrics records the prometheus request counter and latency histogram.
// Uses the route template so path cardinality stays bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		monitoring.HttpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		monitoring.ResponseTimeHistogram.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
