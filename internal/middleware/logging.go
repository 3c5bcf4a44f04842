package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/logger"
)

// AccessLog writes one structured line per request once the handler chain
// has finished. 5xx responses log at error level, 4xx at warn.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.Int("response_bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if p := GetPrincipal(c); p != nil {
			attrs = append(attrs, slog.String("user", p.Username))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		log := logger.WithRequestID(GetRequestID(c))
		switch {
		case status >= 500:
			log.Error("HTTP request", attrs...)
		case status >= 400:
			log.Warn("HTTP request", attrs...)
		default:
			log.Info("HTTP request", attrs...)
		}
	}
}
