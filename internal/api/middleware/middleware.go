package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/notary-bridge/internal/api/shared/errors"
	"github.com/feral-file/notary-bridge/internal/ratelimit"
)

const (
	// REQUEST_ID_HEADER carries the request id in and out
	REQUEST_ID_HEADER = "X-Request-ID"
	// REQUEST_ID_KEY is the gin context key of the request id
	REQUEST_ID_KEY = "request_id"
)

// RequestID assigns every request an id, reusing a valid one sent by the caller
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(REQUEST_ID_HEADER)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(REQUEST_ID_KEY, requestID)
		c.Header(REQUEST_ID_HEADER, requestID)
		c.Next()
	}
}

// Logger returns a gin middleware for structured logging using zap
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("API request",
			zap.String("request_id", c.GetString(REQUEST_ID_KEY)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// Recovery returns a gin middleware for panic recovery with logging
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Error(fmt.Errorf("%v", err)),
					zap.String("request_id", c.GetString(REQUEST_ID_KEY)),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apierrors.NewInternalError("Internal server error")})
			}
		}()
		c.Next()
	}
}

// RateLimit limits requests per client IP. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter unavailable", zap.Error(err), zap.String("client_ip", c.ClientIP()))
			c.Next()
			return
		}

		if !res.Allowed {
			retryAfter := max(int(res.RetryAfter.Round(time.Second)/time.Second), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": apierrors.NewTooManyRequestsError("Rate limit exceeded")})
			return
		}

		c.Next()
	}
}
