// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the order and inventory core.
// It tracks order creation, stock movements, and inventory health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	ordersCreatedTotal  *Counter
	orderAmountTotal    *Counter
	stockMovementsTotal *Counter

	// Gauge metrics (point-in-time values)
	stockOnHandQuantity *Gauge
	lowStockCount       *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	stockProvider StockMetricsProvider
}

// StockMetricsProvider provides inventory data for periodic metrics collection.
// This interface allows the telemetry layer to query inventory state without
// depending on the inventory domain directly.
type StockMetricsProvider interface {
	// GetOnHandByLocation returns total quantity on hand per storage location
	GetOnHandByLocation(ctx context.Context) (map[string]int64, error)

	// GetLowStockCount returns count of stock items below their minimum threshold
	GetLowStockCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	var err error

	bm.ordersCreatedTotal, err = NewCounter(
		cfg.Meter,
		"treadline_orders_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"treadline_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockMovementsTotal, err = NewCounter(
		cfg.Meter,
		"treadline_stock_movements_total",
		"Total number of stock movements recorded",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockOnHandQuantity, err = NewGauge(
		cfg.Meter,
		"treadline_stock_on_hand_quantity",
		"Total quantity on hand per storage location",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.lowStockCount, err = NewGauge(
		cfg.Meter,
		"treadline_low_stock_count",
		"Number of stock items below their minimum threshold",
		"{items}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, orderKind string) {
	bm.ordersCreatedTotal.Inc(ctx,
		AttrOrderKind.String(orderKind),
	)
}

// RecordOrderAmount records the order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, orderKind string, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrOrderKind.String(orderKind),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, orderKind string, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, orderKind)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, orderKind, amountCents)
}

// =============================================================================
// Inventory Metrics
// =============================================================================

// RecordStockMovement records a ledger movement (reserve, release, receive, adjust).
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, movementType, location string) {
	bm.stockMovementsTotal.Inc(ctx,
		AttrMovementType.String(movementType),
		AttrLocation.String(location),
	)
}

// RecordOnHandQuantity records the current on-hand quantity for a location.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOnHandQuantity(ctx context.Context, location string, quantity int64) {
	bm.stockOnHandQuantity.Record(ctx, quantity,
		AttrLocation.String(location),
	)
}

// RecordLowStockCount records the number of stock items below minimum threshold.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, count int64) {
	bm.lowStockCount.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects inventory metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectStockMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

// collectStockMetrics collects inventory gauge metrics.
func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping inventory metrics collection")
		return
	}

	onHandByLocation, err := bm.stockProvider.GetOnHandByLocation(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get on-hand quantity by location", zap.Error(err))
	} else {
		for location, quantity := range onHandByLocation {
			bm.RecordOnHandQuantity(ctx, location, quantity)
		}
	}

	lowStock, err := bm.stockProvider.GetLowStockCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get low stock count", zap.Error(err))
	} else {
		bm.RecordLowStockCount(ctx, lowStock)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
