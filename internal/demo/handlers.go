package demo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/servicecontext/baggage"
)

// Handlers bundles the demo endpoints.
type Handlers struct {
	logger *slog.Logger
}

// NewHandlers creates the demo endpoint set.
func NewHandlers(logger *slog.Logger) *Handlers {
	return &Handlers{logger: logger}
}

// RegisterHealthRoutes registers liveness, readiness and metrics under /-/.
func (h *Handlers) RegisterHealthRoutes(engine *gin.Engine) {
	internal := engine.Group("/-")
	internal.GET("/health/liveness", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	internal.GET("/health/readiness", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	internal.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Echo reports the baggage the request arrived with. It fans two
// sub-operations out with baggage.Go to show the binding crossing
// goroutine boundaries.
func (h *Handlers) Echo(c *gin.Context) {
	ctx := c.Request.Context()
	bag := baggage.FromContextOrTopLevel(ctx)

	entries := map[string]string{}
	_ = bag.ForEach(func(key baggage.AnyKey, value any) error {
		entries[key.Name()] = fmt.Sprint(value)
		return nil
	})

	err := baggage.Go(ctx,
		func(ctx context.Context) error {
			h.logger.InfoContext(ctx, "sub-operation", slog.String("step", "validate"))
			return nil
		},
		func(ctx context.Context) error {
			h.logger.InfoContext(ctx, "sub-operation", slog.String("step", "enrich"))
			return nil
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	requestID, _ := baggage.Get[RequestIDKey](bag)
	correlationID, _ := baggage.Get[CorrelationIDKey](bag)

	c.JSON(http.StatusOK, gin.H{
		"request_id":     requestID,
		"correlation_id": correlationID,
		"baggage":        entries,
	})
}

// Orphan simulates a code path that lost its baggage and had to fall
// back to a placeholder bag. The TODO origin is reported so such paths
// stay auditable, and counted so they show up on dashboards.
func (h *Handlers) Orphan(c *gin.Context) {
	bag := baggage.TODO("demo endpoint has no upstream baggage")
	todoBagsTotal.Inc()

	loc, _ := baggage.Get[baggage.TODOKey](bag)
	h.logger.WarnContext(c.Request.Context(), "placeholder baggage created",
		slog.String("origin", loc.String()),
	)

	c.JSON(http.StatusOK, gin.H{
		"todo":   loc.String(),
		"reason": loc.Reason,
	})
}
