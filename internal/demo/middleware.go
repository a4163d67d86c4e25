package demo

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/servicecontext/baggage"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID is the header name for correlation ID.
	// Unlike request ID (per-request), correlation ID tracks an entire
	// business transaction across multiple services.
	HeaderCorrelationID = "X-Correlation-ID"
)

// Propagation returns middleware that seeds the request's baggage. Each
// ID is extracted from its header when present (propagated from
// upstream) or generated as a new UUID v4, echoed on the response
// headers, and stored in the bag bound on the request context. Every
// handler and middleware downstream inherits the binding.
func Propagation() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := headerOrNew(c, HeaderRequestID)
		correlationID := headerOrNew(c, HeaderCorrelationID)

		bag := baggage.FromContextOrTopLevel(c.Request.Context())
		bag = baggage.Set[RequestIDKey](bag, requestID)
		bag = baggage.Set[CorrelationIDKey](bag, correlationID)
		bag = baggage.Set[ClientIPKey](bag, c.ClientIP())

		ctx := baggage.ContextWithBaggage(c.Request.Context(), bag)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// headerOrNew extracts an ID from the given header or generates one,
// and echoes it on the response.
func headerOrNew(c *gin.Context, header string) string {
	id := c.GetHeader(header)
	if id == "" {
		id = uuid.New().String()
	}

	c.Header(header, id)

	return id
}

// Recovery returns middleware that recovers from panics, logs them with
// the request's baggage, and returns a 500 with the request ID so the
// failure can be correlated.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()

				logger.ErrorContext(ctx, "panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)

				if !c.Writer.Written() {
					requestID, _ := baggage.Get[RequestIDKey](baggage.FromContextOrTopLevel(ctx))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error":      "an internal error occurred",
						"request_id": requestID,
					})
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()
	}
}

// Logging returns middleware that logs request start and completion.
// The logger is expected to sit behind a slogctx handler, so baggage
// entries ride along on every record without being spelled here.
//
// Health and metrics paths (starting with /-/) are skipped to avoid log noise.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()

		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		ctx := c.Request.Context()

		logger.InfoContext(ctx, "request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		logger.LogAttrs(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
		)

		requestsTotal.WithLabelValues(c.FullPath(), http.StatusText(status)).Inc()
	}
}
