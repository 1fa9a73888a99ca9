package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shuddhneer/internal/logger"
	"shuddhneer/internal/metrics"
)

const requestIDHeader = "X-Request-Id"

func requestID(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(logg.WithRequestID(c.Request.Context(), reqID))
		c.Next()
	}
}

func requestLogger(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		logg.Debug(ctx, "request.start")

		c.Next()

		ctx = logg.WithFields(ctx, map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		logg.Info(ctx, "request.complete")
	}
}

func recovery(logg *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		ctx := logg.WithField(c.Request.Context(), "panic", rec)
		logg.Error(ctx, "panic.recovered", fmt.Errorf("panic: %v", rec))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

// observe records request latency by matched route template.
func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
