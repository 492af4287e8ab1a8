package middleware

import (
	"log"
	"strconv"
	"time"

	"bucketindex/metrics"

	"github.com/gin-gonic/gin"
)

// RouteKey is the context key under which the dispatcher records the route
const RouteKey = "route"

// RequestLogger creates a middleware for logging requests
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path

		// Process request
		c.Next()

		status := c.Writer.Status()
		route := c.GetString(RouteKey)
		if route == "" {
			route = "unknown"
		}
		metrics.Responses.WithLabelValues(route, strconv.Itoa(status)).Inc()

		logger.Printf(
			"[HTTP] %s %s %s %d %s",
			c.GetString(RequestIDKey),
			c.Request.Method,
			path,
			status,
			time.Since(start),
		)
	}
}
