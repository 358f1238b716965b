package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/treadline/backend/internal/domain/inventory"
)

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Location       string    `json:"location"`
	Lot            string    `json:"lot,omitempty"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	MinLevel       int64     `json:"min_level"`
	MaxLevel       int64     `json:"max_level"`
	IsBelowMinimum bool      `json:"is_below_minimum"`
	IsAboveMaximum bool      `json:"is_above_maximum"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// ToStockItemResponse converts a StockItem to its response representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Location:       item.Location,
		Lot:            item.Lot,
		QuantityOnHand: item.QuantityOnHand,
		MinLevel:       item.MinLevel,
		MaxLevel:       item.MaxLevel,
		IsBelowMinimum: item.IsBelowMinimum(),
		IsAboveMaximum: item.IsAboveMaximum(),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
		Version:        item.Version,
	}
}

// StockMovementResponse represents one entry of the movement journal
type StockMovementResponse struct {
	ID            uuid.UUID              `json:"id"`
	ProductID     uuid.UUID              `json:"product_id"`
	Location      string                 `json:"location"`
	Type          inventory.MovementType `json:"type"`
	Quantity      int64                  `json:"quantity"`
	QuantityAfter int64                  `json:"quantity_after"`
	Reference     string                 `json:"reference,omitempty"`
	Reason        string                 `json:"reason,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ToStockMovementResponse converts a StockMovement to its response representation
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Location:      m.Location,
		Type:          m.Type,
		Quantity:      m.Quantity,
		QuantityAfter: m.QuantityAfter,
		Reference:     m.Reference,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// ReceiveStockRequest represents a manual stock intake
type ReceiveStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Location  string    `json:"location"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Lot       string    `json:"lot"`
	Reference string    `json:"reference"`
}

// AdjustStockRequest represents a manual adjustment by delta
type AdjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Location  string    `json:"location"`
	Delta     int64     `json:"delta" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// SetLevelsRequest sets the replenishment threshold and capacity bound
type SetLevelsRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Location  string    `json:"location"`
	MinLevel  int64     `json:"min_level" binding:"min=0"`
	MaxLevel  int64     `json:"max_level" binding:"min=0"`
}

// StockListFilter represents filter options for the stock list
type StockListFilter struct {
	ProductID    *uuid.UUID `form:"product_id"`
	Location     *string    `form:"location"`
	BelowMinimum *bool      `form:"below_minimum"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}
