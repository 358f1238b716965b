package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/order"
	"github.com/treadline/backend/internal/infrastructure/telemetry"
)

func TestNewBusinessMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})

	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_RecordOrderCreated(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordOrderCreated(ctx, order.OrderKindSales.String())
	bm.RecordOrderCreated(ctx, order.OrderKindPurchase.String())
	bm.RecordOrderCreated(ctx, order.OrderKindProduction.String())
}

func TestBusinessMetrics_RecordOrderWithAmount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	ctx := context.Background()
	amount := decimal.NewFromFloat(1599.90)

	// Should not panic
	bm.RecordOrderWithAmount(ctx, order.OrderKindSales.String(), amount)
}

func TestBusinessMetrics_RecordStockMovement(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	ctx := context.Background()

	// Should not panic
	bm.RecordStockMovement(ctx, inventory.MovementTypeReceive.String(), "FG-MAIN")
	bm.RecordStockMovement(ctx, inventory.MovementTypeReserve.String(), "FG-MAIN")
	bm.RecordStockMovement(ctx, inventory.MovementTypeAdjust.String(), "RM-DEPOT")
}

// stubStockProvider counts calls so tests can observe periodic collection.
type stubStockProvider struct {
	mu          sync.Mutex
	calls       int
	onHand      map[string]int64
	lowStock    int64
	onHandErr   error
	lowStockErr error
}

func (p *stubStockProvider) GetOnHandByLocation(_ context.Context) (map[string]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.onHandErr != nil {
		return nil, p.onHandErr
	}
	return p.onHand, nil
}

func (p *stubStockProvider) GetLowStockCount(_ context.Context) (int64, error) {
	if p.lowStockErr != nil {
		return 0, p.lowStockErr
	}
	return p.lowStock, nil
}

func (p *stubStockProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	provider := &stubStockProvider{
		onHand:   map[string]int64{"FG-MAIN": 320, "RM-DEPOT": 45},
		lowStock: 2,
	}

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        zap.NewNop(),
		StockProvider: provider,
	})
	require.NoError(t, err)

	ctx := context.Background()
	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	defer bm.Stop()

	// Collects once on start and then on every tick
	assert.Eventually(t, func() bool {
		return provider.callCount() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestBusinessMetrics_PeriodicCollection_ProviderError(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	provider := &stubStockProvider{
		onHandErr:   errors.New("db unavailable"),
		lowStockErr: errors.New("db unavailable"),
	}

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        zap.NewNop(),
		StockProvider: provider,
	})
	require.NoError(t, err)

	// Errors are logged, not fatal
	bm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)
	defer bm.Stop()

	assert.Eventually(t, func() bool {
		return provider.callCount() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestBusinessMetrics_Stop_Idempotent(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)

	bm.StartPeriodicCollection(context.Background(), time.Minute)

	// Should not panic on double stop
	bm.Stop()
	bm.Stop()
}
