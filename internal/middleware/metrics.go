package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder records completed HTTP requests
type RequestRecorder interface {
	RecordRequest(route, method string, status int, latency time.Duration)
}

// Metrics records each request under its route template
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
