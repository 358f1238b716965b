package catalog

import (
	"strings"
	"time"

	"github.com/treadline/backend/internal/domain/shared"
	"github.com/treadline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductKind distinguishes raw materials from finished tires.
// Raw materials (rubber compound, steel cord, bead wire) feed production
// orders; finished tires are what sales orders ship.
type ProductKind string

const (
	ProductKindMaterial ProductKind = "MATERIAL"
	ProductKindTire     ProductKind = "TIRE"
)

// IsValid checks if the kind is a valid ProductKind
func (k ProductKind) IsValid() bool {
	switch k {
	case ProductKindMaterial, ProductKindTire:
		return true
	}
	return false
}

// Product represents a SKU in the catalog: a tire model/size or a raw material.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Kind        ProductKind     `gorm:"type:varchar(20);not null;default:'TIRE'"`
	Description string          `gorm:"type:text"`
	TireSize    string          `gorm:"type:varchar(40)"` // e.g. "205/55R16", empty for materials
	ListPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, kind ProductKind, listPrice valueobject.Money) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Product kind must be MATERIAL or TIRE")
	}
	if listPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Kind:              kind,
		ListPrice:         listPrice.Amount(),
		Active:            true,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetTireSize sets the tire size designation
func (p *Product) SetTireSize(size string) error {
	if p.Kind != ProductKindTire {
		return shared.NewDomainError("INVALID_KIND", "Only tires carry a size designation")
	}
	p.TireSize = size
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetListPrice updates the list price used as the default unit price on sales lines
func (p *Product) SetListPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	p.ListPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// GetListPriceMoney returns the list price as Money value object
func (p *Product) GetListPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.ListPrice)
}

// Deactivate marks the product as no longer orderable
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate marks the product as orderable
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
