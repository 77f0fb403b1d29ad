// Package middleware holds the cross-cutting HTTP concerns: request
// logging, panic recovery, CORS, and rate limiting.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// RequestIDHeader carries the request correlation ID.  An inbound value is
// propagated; otherwise one is generated.
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request and records the HTTP metrics.
// The route template, not the raw path, is used as the metrics label so
// cardinality stays bounded.
func RequestLogger(logger logging.Logger, metrics *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		took := time.Since(start)
		status := c.Writer.Status()

		if metrics != nil {
			metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(status), took)
		}

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.String("route", route),
			logging.Int("status", status),
			logging.Duration("took", took),
			logging.String("client_ip", c.ClientIP()),
		}
		if rid := c.GetHeader(RequestIDHeader); rid != "" {
			fields = append(fields, logging.String("request_id", rid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request served", fields...)
		}
	}
}

// Recovery converts panics into 500 responses instead of killing the
// connection, logging the panic value with the request context.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("request panicked",
					logging.String("method", c.Request.Method),
					logging.String("path", c.Request.URL.Path),
					logging.Any("panic", r),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    string(errors.ErrCodeInternal),
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
