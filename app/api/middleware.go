package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"newsdigest/pkg/logx"
)

// RequestID is a middleware that stamps every request with an id,
// propagated through the context into log records and echoed back in
// the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()

		c.Request = c.Request.WithContext(logx.ContextWithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)

		c.Next()
	}
}

// Logger is a middleware that logs all requests.
func Logger(lg *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		}

		if lg.Handler().Enabled(c.Request.Context(), slog.LevelDebug) {
			lg.DebugCtx(c.Request.Context(), "request processed",
				append(args, slog.String("query", c.Request.URL.RawQuery))...)
		} else {
			lg.InfoCtx(c.Request.Context(), "request processed", args...)
		}
	}
}

// Recovery is a middleware that recovers from panics.
func Recovery(lg *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				lg.ErrorCtx(c.Request.Context(), "panic recovered", slog.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()

		c.Next()
	}
}
