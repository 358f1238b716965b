package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/order"
	"github.com/treadline/backend/internal/domain/shared"
	"github.com/treadline/backend/internal/infrastructure/telemetry"
)

func newTestMetricsHandler(t *testing.T) *telemetry.MetricsEventHandler {
	t.Helper()

	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	return telemetry.NewMetricsEventHandler(bm)
}

func TestMetricsEventHandler_EventTypes(t *testing.T) {
	h := newTestMetricsHandler(t)

	assert.ElementsMatch(t, []string{
		order.EventTypeOrderCreated,
		inventory.EventTypeStockReserved,
		inventory.EventTypeStockReleased,
		inventory.EventTypeStockReceived,
		inventory.EventTypeStockAdjusted,
	}, h.EventTypes())
}

func TestMetricsEventHandler_Handle(t *testing.T) {
	h := newTestMetricsHandler(t)
	ctx := context.Background()

	item, err := inventory.NewStockItem(uuid.New(), "FG-MAIN")
	require.NoError(t, err)
	item.QuantityOnHand = 120

	counterpartyID := uuid.New()
	o, err := order.NewOrder(order.OrderKindSales, "SO-20260110-abcd1234", &counterpartyID, "Roadway Fleet Services", uuid.New(), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		evt  shared.DomainEvent
	}{
		{"order created", order.NewOrderCreatedEvent(o)},
		{"stock reserved", inventory.NewStockReservedEvent(item, 30)},
		{"stock released", inventory.NewStockReleasedEvent(item, 30)},
		{"stock received", inventory.NewStockReceivedEvent(item, 50)},
		{"stock adjusted", inventory.NewStockAdjustedEvent(item, 120, 110, "cycle count")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, h.Handle(ctx, tc.evt))
		})
	}
}

func TestMetricsEventHandler_Handle_UnknownEventIgnored(t *testing.T) {
	h := newTestMetricsHandler(t)

	item, err := inventory.NewStockItem(uuid.New(), "FG-MAIN")
	require.NoError(t, err)

	assert.NoError(t, h.Handle(context.Background(), inventory.NewStockBelowMinimumEvent(item)))
}
