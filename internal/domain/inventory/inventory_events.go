package inventory

import (
	"github.com/google/uuid"
	"github.com/treadline/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockReserved     = "StockReserved"
	EventTypeStockReleased     = "StockReleased"
	EventTypeStockReceived     = "StockReceived"
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypeStockBelowMinimum = "StockBelowMinimum"
)

// StockReservedEvent is raised when stock is committed to a sales order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	Location       string    `json:"location"`
	Quantity       int64     `json:"quantity"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(item *StockItem, quantity int64) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Location:        item.Location,
		Quantity:        quantity,
		QuantityOnHand:  item.QuantityOnHand,
	}
}

// StockReleasedEvent is raised when reserved stock is returned to inventory
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	Location       string    `json:"location"`
	Quantity       int64     `json:"quantity"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(item *StockItem, quantity int64) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Location:        item.Location,
		Quantity:        quantity,
		QuantityOnHand:  item.QuantityOnHand,
	}
}

// StockReceivedEvent is raised when stock enters the warehouse
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	Location       string    `json:"location"`
	Quantity       int64     `json:"quantity"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(item *StockItem, quantity int64) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Location:        item.Location,
		Quantity:        quantity,
		QuantityOnHand:  item.QuantityOnHand,
	}
}

// StockAdjustedEvent is raised when a manual adjustment or count correction is committed
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	Location    string    `json:"location"`
	OldQuantity int64     `json:"old_quantity"`
	NewQuantity int64     `json:"new_quantity"`
	Reason      string    `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, oldQuantity, newQuantity int64, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Location:        item.Location,
		OldQuantity:     oldQuantity,
		NewQuantity:     newQuantity,
		Reason:          reason,
	}
}

// StockBelowMinimumEvent is raised when a reservation drives quantity on
// hand under the replenishment threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	Location       string    `json:"location"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	MinLevel       int64     `json:"min_level"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(item *StockItem) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, AggregateTypeStockItem, item.ID),
		ProductID:       item.ProductID,
		Location:        item.Location,
		QuantityOnHand:  item.QuantityOnHand,
		MinLevel:        item.MinLevel,
	}
}
