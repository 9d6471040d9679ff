package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/service"
)

// Metrics records one observation per request, labelled by route template so
// record set and collection names do not become label values.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
