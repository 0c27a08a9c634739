package middleware

import (
	"strconv"

	"portfolio-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests by route template so path parameters don't explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
