package order

import (
	"github.com/shopspring/decimal"

	"github.com/treadline/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderDeleted       = "OrderDeleted"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	Kind        OrderKind       `json:"kind"`
	Status      OrderStatus     `json:"status"`
	LineCount   int             `json:"line_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		Status:          o.Status,
		LineCount:       len(o.Lines),
		TotalAmount:     o.TotalAmount,
	}
}

// OrderStatusChangedEvent is raised on every committed lifecycle transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	Kind        OrderKind   `json:"kind"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// OrderDeletedEvent is raised when an order is removed under the deletion policy
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	Kind        OrderKind   `json:"kind"`
	Status      OrderStatus `json:"status"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(o *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		Kind:            o.Kind,
		Status:          o.Status,
	}
}
