package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/shared"
)

// LowStockAlertHandler reacts to stock dropping under the replenishment
// threshold. It logs a structured alert that downstream monitoring picks up;
// purchasing reviews the below-minimum report to plan replenishment orders.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// Handle processes a stock below-minimum event
func (h *LowStockAlertHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	lowStock, ok := evt.(*inventory.StockBelowMinimumEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("stock below replenishment threshold",
		zap.String("product_id", lowStock.ProductID.String()),
		zap.String("location", lowStock.Location),
		zap.Int64("quantity_on_hand", lowStock.QuantityOnHand),
		zap.Int64("min_level", lowStock.MinLevel),
	)
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowMinimum}
}

// Ensure LowStockAlertHandler implements EventHandler
var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
