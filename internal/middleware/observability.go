package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey     = "request_id"
	maxRequestIDSize = 64
	redacted         = "[redacted]"
)

// sensitiveQueryParams are logged with their value replaced
var sensitiveQueryParams = map[string]bool{
	"token": true, "secret": true, "key": true, "auth": true,
	"api_key": true, "apikey": true, "email": true,
}

// RequestID returns the correlation id assigned by ObservabilityMiddleware
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// ObservabilityMiddleware assigns a request id, records HTTP metrics and
// writes one log line per request.
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDSize {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		// Route is unknown until after routing, so method only
		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template keeps label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusLabel := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusLabel).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusLabel).Inc()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if status >= 400 {
			fields = append(fields, failureFields(c)...)
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

// failureFields adds route params, sanitized query and attached errors
func failureFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}

	if query := sanitizeQuery(c.Request.URL.Query()); len(query) > 0 {
		fields = append(fields, zap.Any("query_params", query))
	}

	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}

	return fields
}

func sanitizeQuery(query map[string][]string) map[string]string {
	sanitized := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) == 0 {
			continue
		}
		if sensitiveQueryParams[strings.ToLower(k)] {
			sanitized[k] = redacted
			continue
		}
		sanitized[k] = v[0]
	}
	return sanitized
}
