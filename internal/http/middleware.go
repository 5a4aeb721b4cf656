// Package http provides HTTP server implementation and request handlers.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// CustomLoggerMiddleware logs each request's method, path, status and
// duration via slog, replacing Gin's default text logger.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.Request.RemoteAddr),
			slog.String("request_id", c.Writer.Header().Get("X-Request-Id")),
		)
	}
}
