package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/treadline/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code        string              `json:"code" binding:"required,min=1,max=50"`
	Name        string              `json:"name" binding:"required,min=1,max=200"`
	Kind        catalog.ProductKind `json:"kind" binding:"required,oneof=TIRE MATERIAL"`
	Description string              `json:"description" binding:"max=2000"`
	TireSize    string              `json:"tire_size" binding:"max=40"`
	ListPrice   *decimal.Decimal    `json:"list_price"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	TireSize    *string          `json:"tire_size" binding:"omitempty,max=40"`
	ListPrice   *decimal.Decimal `json:"list_price"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Kind        catalog.ProductKind `json:"kind"`
	Description string              `json:"description,omitempty"`
	TireSize    string              `json:"tire_size,omitempty"`
	ListPrice   decimal.Decimal     `json:"list_price"`
	Active      bool                `json:"active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// ToProductResponse converts a Product to its response representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Kind:        p.Kind,
		Description: p.Description,
		TireSize:    p.TireSize,
		ListPrice:   p.ListPrice,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Kind     *catalog.ProductKind `form:"kind"`
	Active   *bool                `form:"active"`
	TireSize *string              `form:"tire_size"`
	Search   string               `form:"search"`
	Page     int                  `form:"page"`
	PageSize int                  `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string               `form:"order_by"`
	OrderDir string               `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}
