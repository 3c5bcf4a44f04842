// Package middleware provides the gin middleware of the blog API.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/metrics"
)

// Metrics records request count, latency and in-flight requests per route
// template. Requests to skipPaths (default "/metrics") are not recorded.
func Metrics(skipPaths ...string) gin.HandlerFunc {
	if len(skipPaths) == 0 {
		skipPaths = []string{"/metrics"}
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		// Route templates keep label cardinality bounded; /api/posts/:slug
		// is one series however many posts exist.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
