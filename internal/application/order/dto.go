package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/treadline/backend/internal/domain/order"
)

// CreateOrderLineRequest represents one line of a create request.
// UnitPrice falls back to the product's list price when omitted.
type CreateOrderLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Location  string           `json:"location"`
	Quantity  int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	Kind             order.OrderKind          `json:"kind" binding:"required,oneof=SALES PURCHASE PRODUCTION"`
	OrderNumber      string                   `json:"order_number"`
	CounterpartyID   *uuid.UUID               `json:"counterparty_id"`
	CounterpartyName string                   `json:"counterparty_name"`
	DueDate          *time.Time               `json:"due_date"`
	Remark           string                   `json:"remark"`
	Lines            []CreateOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	IdempotencyKey   string                   `json:"idempotency_key"`
}

// ChangeStatusRequest represents a lifecycle transition request
type ChangeStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
	Reason string            `json:"reason"` // Defaults to "cancelled by user" when Status is CANCELLED
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Location    string          `json:"location"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	Kind             order.OrderKind     `json:"kind"`
	CounterpartyID   *uuid.UUID          `json:"counterparty_id,omitempty"`
	CounterpartyName string              `json:"counterparty_name,omitempty"`
	Status           order.OrderStatus   `json:"status"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	DueDate          *time.Time          `json:"due_date,omitempty"`
	Remark           string              `json:"remark,omitempty"`
	Lines            []OrderLineResponse `json:"lines"`
	CancelReason     string              `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Version          int                 `json:"version"`
}

// ToOrderResponse converts an Order to its response representation
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductCode: line.ProductCode,
			Location:    line.Location,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		}
	}

	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Kind:             o.Kind,
		CounterpartyID:   o.CounterpartyID,
		CounterpartyName: o.CounterpartyName,
		Status:           o.Status,
		TotalAmount:      o.TotalAmount,
		DueDate:          o.DueDate,
		Remark:           o.Remark,
		Lines:            lines,
		CancelReason:     o.CancelReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Version:          o.Version,
	}
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Kind           *order.OrderKind   `form:"kind"`
	Status         *order.OrderStatus `form:"status"`
	CounterpartyID *uuid.UUID         `form:"counterparty_id"`
	Page           int                `form:"page"`
	PageSize       int                `form:"page_size" binding:"omitempty,min=1,max=100"`
}
