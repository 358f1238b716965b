package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treadline/backend/internal/domain/shared"
)

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

func newTestSalesOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(OrderKindSales, "SO-1001", ptr(uuid.New()), "Acme Fleet Services", uuid.New(), nil)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func newTestProductionOrder(t *testing.T) *Order {
	t.Helper()
	due := time.Now().AddDate(0, 0, 14)
	o, err := NewOrder(OrderKindProduction, "PR-2001", nil, "", uuid.New(), &due)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("sales order starts pending with a counterparty", func(t *testing.T) {
		customerID := uuid.New()
		o, err := NewOrder(OrderKindSales, "SO-1001", ptr(customerID), "Acme Fleet Services", uuid.New(), nil)

		require.NoError(t, err)
		assert.Equal(t, OrderKindSales, o.Kind)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, customerID, *o.CounterpartyID)
		assert.True(t, o.TotalAmount.IsZero())
		assert.Empty(t, o.Lines)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(*OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "SO-1001", created.OrderNumber)
	})

	t.Run("production order starts planned without counterparty", func(t *testing.T) {
		due := time.Now().AddDate(0, 0, 7)
		o, err := NewOrder(OrderKindProduction, "PR-2001", nil, "", uuid.New(), &due)

		require.NoError(t, err)
		assert.Equal(t, OrderStatusPlanned, o.Status)
		assert.Nil(t, o.CounterpartyID)
		require.NotNil(t, o.DueDate)
	})

	t.Run("validation failures", func(t *testing.T) {
		due := time.Now()
		tests := []struct {
			name           string
			kind           OrderKind
			orderNumber    string
			counterpartyID *uuid.UUID
			cpName         string
			dueDate        *time.Time
			expectCode     string
		}{
			{"unknown kind", OrderKind("TRANSFER"), "X-1", ptr(uuid.New()), "Acme", nil, "INVALID_KIND"},
			{"empty order number", OrderKindSales, "", ptr(uuid.New()), "Acme", nil, "INVALID_ORDER_NUMBER"},
			{"sales without counterparty", OrderKindSales, "SO-1", nil, "", nil, "INVALID_COUNTERPARTY"},
			{"purchase without counterparty", OrderKindPurchase, "PO-1", nil, "", nil, "INVALID_COUNTERPARTY"},
			{"sales with nil counterparty id", OrderKindSales, "SO-1", ptr(uuid.Nil), "Acme", nil, "INVALID_COUNTERPARTY"},
			{"sales without counterparty name", OrderKindSales, "SO-1", ptr(uuid.New()), "", nil, "INVALID_COUNTERPARTY_NAME"},
			{"production with counterparty", OrderKindProduction, "PR-1", ptr(uuid.New()), "Acme", &due, "INVALID_COUNTERPARTY"},
			{"production without due date", OrderKindProduction, "PR-1", nil, "", nil, "INVALID_DUE_DATE"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewOrder(tt.kind, tt.orderNumber, tt.counterpartyID, tt.cpName, uuid.New(), tt.dueDate)

				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.expectCode, domainErr.Code)
			})
		}
	})
}

func TestOrder_AddLine(t *testing.T) {
	t.Run("total equals sum of subtotals", func(t *testing.T) {
		o := newTestSalesOrder(t)

		_, err := o.AddLine(uuid.New(), "All-Season 205/55R16", "TIRE-AS-205", "FG-MAIN", 30, decimal.NewFromInt(10))
		require.NoError(t, err)
		_, err = o.AddLine(uuid.New(), "Winter 225/45R17", "TIRE-WN-225", "FG-MAIN", 5, decimal.NewFromFloat(89.90))
		require.NoError(t, err)

		// 30*10 + 5*89.90 = 749.50
		assert.True(t, decimal.NewFromFloat(749.50).Equal(o.Total()),
			"total = %s", o.Total())
		assert.Equal(t, 2, o.LineCount())
		assert.Equal(t, int64(35), o.TotalQuantity())
	})

	t.Run("line validation", func(t *testing.T) {
		o := newTestSalesOrder(t)

		tests := []struct {
			name       string
			productID  uuid.UUID
			prodName   string
			quantity   int64
			unitPrice  decimal.Decimal
			expectCode string
		}{
			{"nil product", uuid.Nil, "Tire", 1, decimal.NewFromInt(10), "INVALID_PRODUCT"},
			{"empty name", uuid.New(), "", 1, decimal.NewFromInt(10), "INVALID_PRODUCT_NAME"},
			{"zero quantity", uuid.New(), "Tire", 0, decimal.NewFromInt(10), "INVALID_QUANTITY"},
			{"negative quantity", uuid.New(), "Tire", -3, decimal.NewFromInt(10), "INVALID_QUANTITY"},
			{"negative price", uuid.New(), "Tire", 1, decimal.NewFromInt(-1), "INVALID_PRICE"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := o.AddLine(tt.productID, tt.prodName, "CODE", "FG-MAIN", tt.quantity, tt.unitPrice)

				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.expectCode, domainErr.Code)
			})
		}
		assert.Equal(t, 0, o.LineCount())
	})

	t.Run("duplicate product at same location is rejected", func(t *testing.T) {
		o := newTestSalesOrder(t)
		productID := uuid.New()

		_, err := o.AddLine(productID, "Tire", "CODE", "FG-MAIN", 1, decimal.NewFromInt(10))
		require.NoError(t, err)

		_, err = o.AddLine(productID, "Tire", "CODE", "FG-MAIN", 2, decimal.NewFromInt(10))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)

		// Same product at a different location is a separate line
		_, err = o.AddLine(productID, "Tire", "CODE", "FG-OVERFLOW", 2, decimal.NewFromInt(10))
		assert.NoError(t, err)
	})

	t.Run("adding lines past the initial status is rejected", func(t *testing.T) {
		o := newTestSalesOrder(t)
		_, err := o.AddLine(uuid.New(), "Tire", "CODE", "FG-MAIN", 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, o.TransitionTo(OrderStatusCompleted))

		_, err = o.AddLine(uuid.New(), "Tire 2", "CODE2", "FG-MAIN", 1, decimal.NewFromInt(10))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestOrder_LineEdits(t *testing.T) {
	o, err := NewOrder(OrderKindPurchase, "PO-3001", ptr(uuid.New()), "Rubber Supply Co", uuid.New(), nil)
	require.NoError(t, err)

	line, err := o.AddLine(uuid.New(), "Raw rubber compound", "MAT-RUBBER", "RM-MAIN", 100, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(200).Equal(o.Total()))

	t.Run("update quantity recomputes subtotal and total", func(t *testing.T) {
		require.NoError(t, o.UpdateLineQuantity(line.ID, 150))
		assert.True(t, decimal.NewFromInt(300).Equal(o.Total()))
		assert.Equal(t, int64(150), o.GetLine(line.ID).Quantity)
	})

	t.Run("update price recomputes subtotal and total", func(t *testing.T) {
		require.NoError(t, o.UpdateLinePrice(line.ID, decimal.NewFromFloat(2.50)))
		assert.True(t, decimal.NewFromFloat(375).Equal(o.Total()))
	})

	t.Run("unknown line id", func(t *testing.T) {
		err := o.UpdateLineQuantity(uuid.New(), 10)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "LINE_NOT_FOUND", domainErr.Code)
	})

	t.Run("remove line recomputes total", func(t *testing.T) {
		require.NoError(t, o.RemoveLine(line.ID))
		assert.True(t, o.Total().IsZero())
		assert.Equal(t, 0, o.LineCount())
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("legal transition records timestamp and event", func(t *testing.T) {
		o, err := NewOrder(OrderKindPurchase, "PO-3001", ptr(uuid.New()), "Rubber Supply Co", uuid.New(), nil)
		require.NoError(t, err)
		o.ClearDomainEvents()

		require.NoError(t, o.TransitionTo(OrderStatusApproved))
		assert.Equal(t, OrderStatusApproved, o.Status)
		assert.NotNil(t, o.ApprovedAt)

		require.NoError(t, o.TransitionTo(OrderStatusReceived))
		assert.Equal(t, OrderStatusReceived, o.Status)
		assert.NotNil(t, o.ReceivedAt)
		assert.True(t, o.IsTerminal())

		events := o.GetDomainEvents()
		require.Len(t, events, 2)
		changed, ok := events[1].(*OrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusApproved, changed.FromStatus)
		assert.Equal(t, OrderStatusReceived, changed.ToStatus)
	})

	t.Run("illegal transition fails with typed error", func(t *testing.T) {
		o := newTestSalesOrder(t)

		err := o.TransitionTo(OrderStatusApproved)

		var transErr *InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
		assert.Equal(t, OrderStatusPending, transErr.From)
		assert.Equal(t, OrderStatusApproved, transErr.To)
		assert.Equal(t, OrderStatusPending, o.Status)
	})

	t.Run("self-transition is illegal", func(t *testing.T) {
		o := newTestSalesOrder(t)

		err := o.TransitionTo(OrderStatusPending)

		var transErr *InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
	})

	t.Run("terminal status allows no further transitions", func(t *testing.T) {
		o := newTestSalesOrder(t)
		require.NoError(t, o.TransitionTo(OrderStatusCompleted))

		err := o.TransitionTo(OrderStatusCancelled)

		var transErr *InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
	})

	t.Run("production flow", func(t *testing.T) {
		o := newTestProductionOrder(t)

		require.NoError(t, o.TransitionTo(OrderStatusInProgress))
		assert.NotNil(t, o.StartedAt)
		require.NoError(t, o.TransitionTo(OrderStatusCompleted))
		assert.NotNil(t, o.CompletedAt)
		assert.True(t, o.IsTerminal())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancel records reason and timestamp", func(t *testing.T) {
		o := newTestSalesOrder(t)

		require.NoError(t, o.Cancel("customer withdrew"))

		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "customer withdrew", o.CancelReason)
		assert.NotNil(t, o.CancelledAt)
		assert.True(t, o.IsCancelled())
	})

	t.Run("missing reason is rejected", func(t *testing.T) {
		o := newTestSalesOrder(t)

		err := o.Cancel("")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
		assert.Equal(t, OrderStatusPending, o.Status)
	})
}

func TestOrder_CheckDeletable(t *testing.T) {
	t.Run("pending sales order is deletable", func(t *testing.T) {
		o := newTestSalesOrder(t)
		assert.NoError(t, o.CheckDeletable())
	})

	t.Run("completed order is not deletable", func(t *testing.T) {
		o := newTestSalesOrder(t)
		require.NoError(t, o.TransitionTo(OrderStatusCompleted))

		err := o.CheckDeletable()

		var delErr *IllegalDeleteError
		require.ErrorAs(t, err, &delErr)
		assert.Equal(t, o.ID, delErr.OrderID)
		assert.Equal(t, OrderStatusCompleted, delErr.Status)
	})

	t.Run("cancelled order is deletable", func(t *testing.T) {
		o := newTestSalesOrder(t)
		require.NoError(t, o.Cancel("duplicate entry"))
		assert.NoError(t, o.CheckDeletable())
	})
}

func TestOrder_ConsumesStockOnCreation(t *testing.T) {
	sales := newTestSalesOrder(t)
	assert.True(t, sales.ConsumesStockOnCreation())

	purchase, err := NewOrder(OrderKindPurchase, "PO-1", ptr(uuid.New()), "Rubber Supply Co", uuid.New(), nil)
	require.NoError(t, err)
	assert.False(t, purchase.ConsumesStockOnCreation())

	production := newTestProductionOrder(t)
	assert.False(t, production.ConsumesStockOnCreation())
}
