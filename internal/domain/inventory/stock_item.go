package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/treadline/backend/internal/domain/shared"
)

// StockItem represents the on-hand stock of one product at one location.
// It is the aggregate root for inventory operations and the only type
// allowed to mutate QuantityOnHand. The composite identifier is
// ProductID + Location.
type StockItem struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_product_location,priority:1"`
	Location       string    `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_stock_item_product_location,priority:2"`
	Lot            string    `gorm:"type:varchar(50)"`
	QuantityOnHand int64     `gorm:"not null;default:0"`
	MinLevel       int64     `gorm:"not null;default:0"` // Replenishment threshold for alerts
	MaxLevel       int64     `gorm:"not null;default:0"` // Capacity bound, 0 = unbounded
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item for a product-location combination.
// A location may be empty, meaning the default plant warehouse.
func NewStockItem(productID uuid.UUID, location string) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Location:          location,
	}, nil
}

// CheckBounds verifies that a proposed on-hand quantity stays within
// [MinLevel, MaxLevel]. Pure check, no mutation. A MaxLevel of zero
// means the location has no capacity bound.
func (s *StockItem) CheckBounds(proposed int64) error {
	if proposed < s.MinLevel || (s.MaxLevel > 0 && proposed > s.MaxLevel) {
		return &OutOfBoundsError{
			ProductID: s.ProductID,
			Location:  s.Location,
			Min:       s.MinLevel,
			Max:       s.MaxLevel,
			Requested: proposed,
		}
	}
	return nil
}

// Reserve decreases quantity on hand for an order line that consumes stock.
// Fails with InsufficientStockError without mutating when the requested
// quantity exceeds what is on hand. Reserving below MinLevel is allowed;
// the min level is a replenishment threshold, not a hard floor.
func (s *StockItem) Reserve(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if s.QuantityOnHand-quantity < 0 {
		return &InsufficientStockError{
			ProductID: s.ProductID,
			Location:  s.Location,
			Requested: quantity,
			Available: s.QuantityOnHand,
		}
	}

	s.QuantityOnHand -= quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockReservedEvent(s, quantity))
	if s.MinLevel > 0 && s.QuantityOnHand < s.MinLevel {
		s.AddDomainEvent(NewStockBelowMinimumEvent(s))
	}

	return nil
}

// Release increases quantity on hand, undoing a prior Reserve. It is only
// ever called once per successful Reserve, on cancellation or rollback, so
// it cannot overshoot a level the item already held before the reservation.
func (s *StockItem) Release(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}

	s.QuantityOnHand += quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockReleasedEvent(s, quantity))

	return nil
}

// Receive increases quantity on hand for stock-producing flows (purchase
// receipt, production completion, manual intake), subject to the MaxLevel
// capacity bound. Fails without mutating when the receipt would overflow.
func (s *StockItem) Receive(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if s.MaxLevel > 0 && s.QuantityOnHand+quantity > s.MaxLevel {
		return &OutOfBoundsError{
			ProductID: s.ProductID,
			Location:  s.Location,
			Min:       s.MinLevel,
			Max:       s.MaxLevel,
			Requested: s.QuantityOnHand + quantity,
		}
	}

	s.QuantityOnHand += quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockReceivedEvent(s, quantity))

	return nil
}

// ReverseReceipt undoes a Receive applied earlier in the same logical
// operation, during compensation of a partially failed receipt. Only the
// non-negativity guard applies; the min level must not block a reversal.
func (s *StockItem) ReverseReceipt(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Reversal quantity must be positive")
	}
	if s.QuantityOnHand-quantity < 0 {
		return &InsufficientStockError{
			ProductID: s.ProductID,
			Location:  s.Location,
			Requested: quantity,
			Available: s.QuantityOnHand,
		}
	}

	old := s.QuantityOnHand
	s.QuantityOnHand -= quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockAdjustedEvent(s, old, s.QuantityOnHand, "receipt reversal"))

	return nil
}

// AdjustTo sets quantity on hand to a counted value (manual adjustment,
// stock taking). The full [MinLevel, MaxLevel] window applies; the reason
// is recorded for audit purposes.
func (s *StockItem) AdjustTo(quantity int64, reason string) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity on hand cannot be negative")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if err := s.CheckBounds(quantity); err != nil {
		return err
	}

	old := s.QuantityOnHand
	s.QuantityOnHand = quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockAdjustedEvent(s, old, quantity, reason))

	return nil
}

// SetLevels sets the replenishment threshold and capacity bound.
// A max of zero disables the capacity bound.
func (s *StockItem) SetLevels(minLevel, maxLevel int64) error {
	if minLevel < 0 || maxLevel < 0 {
		return shared.NewDomainError("INVALID_LEVEL", "Stock levels cannot be negative")
	}
	if maxLevel > 0 && minLevel > maxLevel {
		return shared.NewDomainError("INVALID_LEVEL", "Minimum level cannot exceed maximum level")
	}

	s.MinLevel = minLevel
	s.MaxLevel = maxLevel
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetLot tags the stock item with a production lot
func (s *StockItem) SetLot(lot string) {
	s.Lot = lot
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// CanFulfill returns true if the on-hand quantity covers the requested quantity
func (s *StockItem) CanFulfill(quantity int64) bool {
	return s.QuantityOnHand >= quantity
}

// IsBelowMinimum returns true if quantity on hand is under the replenishment threshold
func (s *StockItem) IsBelowMinimum() bool {
	return s.MinLevel > 0 && s.QuantityOnHand < s.MinLevel
}

// IsAboveMaximum returns true if quantity on hand exceeds the capacity bound
func (s *StockItem) IsAboveMaximum() bool {
	return s.MaxLevel > 0 && s.QuantityOnHand > s.MaxLevel
}
