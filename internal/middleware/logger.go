package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/metrics"
	"beautybook/internal/pkg/response"
)

const headerRequestID = "X-Request-ID"

// RequestLogger assigns a request id, recovers panics, logs failed requests
// and records request metrics.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := requestID(c)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)

		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Error(err, "panic recovered", requestFields(c, start, reqID, "stack", string(debug.Stack()))...)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			if m != nil {
				m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
				m.HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
			}

			for _, ginErr := range c.Errors {
				log.Error(ginErr.Err, "request_error", requestFields(c, start, reqID, "type", fmt.Sprintf("%v", ginErr.Type))...)
			}
			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				log.Warn("http_error", requestFields(c, start, reqID)...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time, reqID string, extra ...interface{}) []interface{} {
	fields := []interface{}{
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"user_id", c.GetInt64(ctxUserID),
		"role", c.GetString(ctxRole),
		"request_id", reqID,
		"latency", time.Since(start).String(),
	}
	return append(fields, extra...)
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader(headerRequestID)
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
