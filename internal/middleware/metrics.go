package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptbrew/internal/llm"
)

// Metrics counts and times every request by method, route and status.
func Metrics(recorder llm.Recorder) gin.HandlerFunc {
	if recorder == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		labels := map[string]string{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		recorder.RecordCounter("promptbrew_http_requests_total", labels, 1)
		recorder.RecordTimer("promptbrew_http_request_duration_seconds", labels, time.Since(start))
	}
}
