package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treadline/backend/internal/domain/shared"
)

func newTestStockItem(t *testing.T, quantity int64) *StockItem {
	t.Helper()
	item, err := NewStockItem(uuid.New(), "FG-MAIN")
	require.NoError(t, err)
	item.QuantityOnHand = quantity
	item.ClearDomainEvents()
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("valid stock item", func(t *testing.T) {
		productID := uuid.New()
		item, err := NewStockItem(productID, "FG-MAIN")

		require.NoError(t, err)
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, "FG-MAIN", item.Location)
		assert.Equal(t, int64(0), item.QuantityOnHand)
		assert.Equal(t, int64(0), item.MinLevel)
		assert.Equal(t, int64(0), item.MaxLevel)
		assert.NotEqual(t, uuid.Nil, item.ID)
	})

	t.Run("empty location is allowed", func(t *testing.T) {
		item, err := NewStockItem(uuid.New(), "")

		require.NoError(t, err)
		assert.Equal(t, "", item.Location)
	})

	t.Run("nil product id is rejected", func(t *testing.T) {
		_, err := NewStockItem(uuid.Nil, "FG-MAIN")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)
	})
}

func TestStockItem_Reserve(t *testing.T) {
	t.Run("successful reservation decreases quantity", func(t *testing.T) {
		item := newTestStockItem(t, 100)
		version := item.GetVersion()

		err := item.Reserve(30)

		require.NoError(t, err)
		assert.Equal(t, int64(70), item.QuantityOnHand)
		assert.Equal(t, version+1, item.GetVersion())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		reserved, ok := events[0].(*StockReservedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(30), reserved.Quantity)
		assert.Equal(t, int64(70), reserved.QuantityOnHand)
	})

	t.Run("reservation down to zero succeeds", func(t *testing.T) {
		item := newTestStockItem(t, 30)

		err := item.Reserve(30)

		require.NoError(t, err)
		assert.Equal(t, int64(0), item.QuantityOnHand)
	})

	t.Run("insufficient stock fails without mutating", func(t *testing.T) {
		item := newTestStockItem(t, 5)
		version := item.GetVersion()

		err := item.Reserve(30)

		var insufficientErr *InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, item.ProductID, insufficientErr.ProductID)
		assert.Equal(t, int64(30), insufficientErr.Requested)
		assert.Equal(t, int64(5), insufficientErr.Available)
		assert.Equal(t, int64(5), item.QuantityOnHand)
		assert.Equal(t, version, item.GetVersion())
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("reserving below min level is allowed and raises an alert", func(t *testing.T) {
		item := newTestStockItem(t, 100)
		require.NoError(t, item.SetLevels(80, 0))
		item.ClearDomainEvents()

		err := item.Reserve(30)

		require.NoError(t, err)
		assert.Equal(t, int64(70), item.QuantityOnHand)

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		below, ok := events[1].(*StockBelowMinimumEvent)
		require.True(t, ok)
		assert.Equal(t, int64(70), below.QuantityOnHand)
		assert.Equal(t, int64(80), below.MinLevel)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 100)

		for _, qty := range []int64{0, -5} {
			err := item.Reserve(qty)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
		}
		assert.Equal(t, int64(100), item.QuantityOnHand)
	})
}

func TestStockItem_Release(t *testing.T) {
	t.Run("release restores quantity", func(t *testing.T) {
		item := newTestStockItem(t, 100)
		require.NoError(t, item.Reserve(30))

		err := item.Release(30)

		require.NoError(t, err)
		assert.Equal(t, int64(100), item.QuantityOnHand)

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		released, ok := events[1].(*StockReleasedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(30), released.Quantity)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 100)

		err := item.Release(0)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestStockItem_Receive(t *testing.T) {
	t.Run("receipt increases quantity", func(t *testing.T) {
		item := newTestStockItem(t, 10)

		err := item.Receive(40)

		require.NoError(t, err)
		assert.Equal(t, int64(50), item.QuantityOnHand)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		received, ok := events[0].(*StockReceivedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(40), received.Quantity)
	})

	t.Run("receipt beyond max level fails without mutating", func(t *testing.T) {
		item := newTestStockItem(t, 90)
		require.NoError(t, item.SetLevels(0, 100))

		err := item.Receive(20)

		var boundsErr *OutOfBoundsError
		require.ErrorAs(t, err, &boundsErr)
		assert.Equal(t, int64(110), boundsErr.Requested)
		assert.Equal(t, int64(100), boundsErr.Max)
		assert.Equal(t, int64(90), item.QuantityOnHand)
	})

	t.Run("zero max level means unbounded", func(t *testing.T) {
		item := newTestStockItem(t, 1000)

		err := item.Receive(1000000)

		require.NoError(t, err)
		assert.Equal(t, int64(1001000), item.QuantityOnHand)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 10)

		err := item.Receive(-1)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestStockItem_AdjustTo(t *testing.T) {
	t.Run("adjustment sets quantity and records reason", func(t *testing.T) {
		item := newTestStockItem(t, 100)

		err := item.AdjustTo(95, "annual stock count")

		require.NoError(t, err)
		assert.Equal(t, int64(95), item.QuantityOnHand)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		adjusted, ok := events[0].(*StockAdjustedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(100), adjusted.OldQuantity)
		assert.Equal(t, int64(95), adjusted.NewQuantity)
		assert.Equal(t, "annual stock count", adjusted.Reason)
	})

	t.Run("adjustment outside bounds fails", func(t *testing.T) {
		item := newTestStockItem(t, 50)
		require.NoError(t, item.SetLevels(20, 100))

		tests := []struct {
			name     string
			quantity int64
		}{
			{"below minimum", 10},
			{"above maximum", 150},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := item.AdjustTo(tt.quantity, "count correction")

				var boundsErr *OutOfBoundsError
				require.ErrorAs(t, err, &boundsErr)
				assert.Equal(t, tt.quantity, boundsErr.Requested)
				assert.Equal(t, int64(50), item.QuantityOnHand)
			})
		}
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 50)

		err := item.AdjustTo(-1, "count correction")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("missing reason is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 50)

		err := item.AdjustTo(40, "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})
}

func TestStockItem_CheckBounds(t *testing.T) {
	item := newTestStockItem(t, 50)
	require.NoError(t, item.SetLevels(20, 100))

	assert.NoError(t, item.CheckBounds(20))
	assert.NoError(t, item.CheckBounds(100))

	err := item.CheckBounds(19)
	var boundsErr *OutOfBoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, int64(20), boundsErr.Min)

	err = item.CheckBounds(101)
	require.True(t, errors.As(err, &boundsErr))
	assert.Equal(t, int64(100), boundsErr.Max)

	// pure check, no mutation
	assert.Equal(t, int64(50), item.QuantityOnHand)
}

func TestStockItem_SetLevels(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		item := newTestStockItem(t, 0)

		err := item.SetLevels(10, 200)

		require.NoError(t, err)
		assert.Equal(t, int64(10), item.MinLevel)
		assert.Equal(t, int64(200), item.MaxLevel)
	})

	t.Run("min above max is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 0)

		err := item.SetLevels(50, 20)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_LEVEL", domainErr.Code)
	})

	t.Run("negative level is rejected", func(t *testing.T) {
		item := newTestStockItem(t, 0)

		err := item.SetLevels(-1, 0)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_LEVEL", domainErr.Code)
	})

	t.Run("zero max with positive min is allowed", func(t *testing.T) {
		item := newTestStockItem(t, 0)

		require.NoError(t, item.SetLevels(30, 0))
		assert.Equal(t, int64(30), item.MinLevel)
	})
}

func TestStockItem_Queries(t *testing.T) {
	item := newTestStockItem(t, 50)
	require.NoError(t, item.SetLevels(20, 100))

	assert.True(t, item.CanFulfill(50))
	assert.False(t, item.CanFulfill(51))
	assert.False(t, item.IsBelowMinimum())
	assert.False(t, item.IsAboveMaximum())

	item.QuantityOnHand = 10
	assert.True(t, item.IsBelowMinimum())

	item.QuantityOnHand = 150
	assert.True(t, item.IsAboveMaximum())
}

func TestNewStockMovement(t *testing.T) {
	item := newTestStockItem(t, 70)

	movement, err := NewStockMovement(item, MovementTypeReserve, -30, "SO-1001", "")

	require.NoError(t, err)
	assert.Equal(t, item.ProductID, movement.ProductID)
	assert.Equal(t, item.Location, movement.Location)
	assert.Equal(t, MovementTypeReserve, movement.Type)
	assert.Equal(t, int64(-30), movement.Quantity)
	assert.Equal(t, int64(70), movement.QuantityAfter)
	assert.Equal(t, "SO-1001", movement.Reference)
	assert.NotEqual(t, uuid.Nil, movement.ID)

	_, err = NewStockMovement(item, MovementType("TRANSFER"), 10, "", "")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MOVEMENT_TYPE", domainErr.Code)
}

func TestMovementType_IsValid(t *testing.T) {
	for _, mt := range []MovementType{MovementTypeReserve, MovementTypeRelease, MovementTypeReceive, MovementTypeAdjust} {
		assert.True(t, mt.IsValid())
	}
	assert.False(t, MovementType("TRANSFER").IsValid())
}
