package middleware

import (
	"time"

	applogger "GFQuant/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs each request with method, path, status and latency.
// Server errors log at error level, client errors at warn.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			res := c.Response()
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.Int("status", res.Status),
				applogger.Duration("latency", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, applogger.Error(err))
			}

			switch {
			case res.Status >= 500:
				l.Error("http request", fields...)
			case res.Status >= 400:
				l.Warn("http request", fields...)
			default:
				l.Info("http request", fields...)
			}
			return err
		}
	}
}
