package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// sensitiveQueryParams are redacted from logs
var sensitiveQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true, "key": true,
	"auth": true, "api_key": true, "apikey": true,
}

// ObservabilityMiddleware instruments HTTP requests with metrics and logging
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		// route is unknown until after routing, so only the method is a label
		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// route template, not the raw path, keeps label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("response_size", c.Writer.Size()),
		}

		if session, err := GetWizardSession(c); err == nil {
			fields = append(fields, zap.String("executive_id", session.ExecutiveID))
		}

		if status >= 400 {
			if len(c.Params) > 0 {
				params := make(map[string]string, len(c.Params))
				for _, p := range c.Params {
					params[p.Key] = p.Value
				}
				fields = append(fields, zap.Any("route_params", params))
			}

			if query := c.Request.URL.Query(); len(query) > 0 {
				sanitized := make(map[string]string, len(query))
				for k, v := range query {
					if !sensitiveQueryParams[strings.ToLower(k)] && len(v) > 0 {
						sanitized[k] = v[0]
					}
				}
				if len(sanitized) > 0 {
					fields = append(fields, zap.Any("query_params", sanitized))
				}
			}

			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("error", c.Errors.String()))
			}
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}
