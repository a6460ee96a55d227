package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// probes are polled constantly; successful ones only show at debug level.
var probes = map[string]bool{"/healthz": true, "/metrics": true}

// Logger writes one http_request line per request, tagged with the route
// pattern and the logged-in admin.
func Logger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		var level slog.Level
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case probes[c.Request.URL.Path]:
			level = slog.LevelDebug
		default:
			level = slog.LevelInfo
		}

		attrs := []slog.Attr{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		if st := CurrentSession(c); st != nil && st.LoggedIn() {
			attrs = append(attrs, slog.String("user_id", st.UserID()))
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		l.LogAttrs(c.Request.Context(), level, "http_request", attrs...)
	}
}
