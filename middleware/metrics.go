package middleware

import (
	"strconv"
	"time"

	"study-material-platform/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and duration for every route.
func MetricsMiddleware(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
