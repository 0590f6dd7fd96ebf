package middleware

import (
	"github.com/gin-gonic/gin"

	"produce-market/internal/metrics"
)

// Metrics labels by route template so ids do not explode cardinality.
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Begin()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		done(path, c.Request.Method, c.Writer.Status())
	}
}
