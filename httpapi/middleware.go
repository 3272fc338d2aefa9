package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/logging"
	"github.com/google/uuid"
)

const (
	metricRequestsTotal   = "http.requests.total"
	metricRequestDuration = "http.request.duration_ms"
)

// requestIDMiddleware keeps an inbound X-Request-Id or assigns a new one and
// carries it in the request context.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func recoveryMiddleware(observer *core.Observer) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		observer.Error(c.Request.Context(), "Request panicked.", map[string]any{
			"route": c.FullPath(),
			"panic": recovered,
		})
		renderStatus(c, http.StatusInternalServerError, "An unexpected error occurred")
	})
}

func accessLogMiddleware(observer *core.Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()
		observer.Info(c.Request.Context(), "Request handled.", map[string]any{
			"method":      c.Request.Method,
			"route":       routeLabel(c),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(startedAt).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"headers":     core.RedactHeaders(c.Request.Header),
		})
	}
}

func metricsMiddleware(observer *core.Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()
		tags := map[string]string{
			"method": c.Request.Method,
			"route":  routeLabel(c),
			"status": strconv.Itoa(c.Writer.Status()),
		}
		observer.Count(c.Request.Context(), metricRequestsTotal, tags)
		observer.Observe(c.Request.Context(), metricRequestDuration, float64(time.Since(startedAt).Milliseconds()), tags)
	}
}

// routeLabel uses the matched route template so path parameters do not leak
// into metric labels.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
