package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// RequestID makes sure every request carries an id, taken from the
// X-Request-ID header or generated, and echoes it back.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = shortuuid.New()
			}
			c.Set(requestIDKey, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(c)
		}
	}
}

// GetRequestID returns the id RequestID assigned, or "".
func GetRequestID(c echo.Context) string {
	s, _ := c.Get(requestIDKey).(string)
	return s
}

// RequestLogger writes one structured line per request.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			entry := log.WithFields(logrus.Fields{
				"request_id": GetRequestID(c),
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     c.Response().Status,
				"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
				"ip":         c.RealIP(),
			})
			if s, ok := SessionFrom(c); ok {
				entry = entry.WithField("staff_id", s.StaffID)
			}
			if c.Response().Status >= 500 {
				entry.Error("http request")
			} else {
				entry.Info("http request")
			}
			return nil
		}
	}
}
