package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/telemetry"
)

// Context keys handlers set so the access log can describe what happened.
const (
	RecommendOutcomeKey = "recommendOutcome"
	PumpKey             = "pump"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if outcome := c.GetString(RecommendOutcomeKey); outcome != "" {
			fields["recommend_outcome"] = outcome
		}
		if pump := c.GetString(PumpKey); pump != "" {
			fields["pump"] = pump
		}
		telemetry.Info("request.complete", fields)
	}
}
