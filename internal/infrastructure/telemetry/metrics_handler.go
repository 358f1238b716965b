package telemetry

import (
	"context"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/order"
	"github.com/treadline/backend/internal/domain/shared"
)

// MetricsEventHandler feeds committed domain events into the business
// metrics instruments.
type MetricsEventHandler struct {
	metrics *BusinessMetrics
}

// NewMetricsEventHandler creates a new MetricsEventHandler
func NewMetricsEventHandler(metrics *BusinessMetrics) *MetricsEventHandler {
	return &MetricsEventHandler{metrics: metrics}
}

// Handle records metrics for order and stock events
func (h *MetricsEventHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.metrics == nil {
		return nil
	}

	switch e := evt.(type) {
	case *order.OrderCreatedEvent:
		h.metrics.RecordOrderWithAmount(ctx, e.Kind.String(), e.TotalAmount)
	case *inventory.StockReservedEvent:
		h.metrics.RecordStockMovement(ctx, string(inventory.MovementTypeReserve), e.Location)
		h.metrics.RecordOnHandQuantity(ctx, e.Location, e.QuantityOnHand)
	case *inventory.StockReleasedEvent:
		h.metrics.RecordStockMovement(ctx, string(inventory.MovementTypeRelease), e.Location)
		h.metrics.RecordOnHandQuantity(ctx, e.Location, e.QuantityOnHand)
	case *inventory.StockReceivedEvent:
		h.metrics.RecordStockMovement(ctx, string(inventory.MovementTypeReceive), e.Location)
		h.metrics.RecordOnHandQuantity(ctx, e.Location, e.QuantityOnHand)
	case *inventory.StockAdjustedEvent:
		h.metrics.RecordStockMovement(ctx, string(inventory.MovementTypeAdjust), e.Location)
		h.metrics.RecordOnHandQuantity(ctx, e.Location, e.NewQuantity)
	}
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *MetricsEventHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		inventory.EventTypeStockReserved,
		inventory.EventTypeStockReleased,
		inventory.EventTypeStockReceived,
		inventory.EventTypeStockAdjusted,
	}
}

var _ shared.EventHandler = (*MetricsEventHandler)(nil)
