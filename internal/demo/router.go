package demo

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/servicecontext/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging. Wrap it
	// with slogctx before passing it in so baggage lands on records.
	Logger *slog.Logger

	// ServiceName labels spans emitted by the tracing middleware.
	ServiceName string

	// Handlers holds the demo endpoints.
	Handlers *Handlers
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Propagation - extract headers into baggage, bind to the request context
//  3. OpenTelemetry - tracing and metrics
//  4. AnnotateBaggage - copy baggage onto the server span
//  5. Logging - request logging (skips internal endpoints)
//
// Route groups:
//   - /-/ (internal): health and metrics endpoints
//   - /api/v1/ (public API): demo endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		Recovery(cfg.Logger),
		Propagation(),
		telemetry.Middleware(cfg.ServiceName),
		telemetry.AnnotateBaggage(),
		Logging(cfg.Logger),
	)

	if cfg.Handlers != nil {
		cfg.Handlers.RegisterHealthRoutes(engine)

		apiV1 := engine.Group("/api/v1")
		apiV1.GET("/echo", cfg.Handlers.Echo)
		apiV1.POST("/orphan", cfg.Handlers.Orphan)
	}
}
