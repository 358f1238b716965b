package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/treadline/backend/internal/domain/shared"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeReserve represents stock committed to a sales order at creation
	MovementTypeReserve MovementType = "RESERVE"
	// MovementTypeRelease represents reserved stock returned on cancellation or rollback
	MovementTypeRelease MovementType = "RELEASE"
	// MovementTypeReceive represents stock entering the warehouse (purchase receipt, production completion)
	MovementTypeReceive MovementType = "RECEIVE"
	// MovementTypeAdjust represents a manual adjustment or stock count correction
	MovementTypeAdjust MovementType = "ADJUST"
)

// IsValid returns true if the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementTypeReserve, MovementTypeRelease, MovementTypeReceive, MovementTypeAdjust:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (m MovementType) String() string {
	return string(m)
}

// StockMovement is an append-only audit record of one committed ledger
// mutation. Movements are never updated or deleted.
type StockMovement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	Location      string       `gorm:"type:varchar(50);not null;default:''"`
	Type          MovementType `gorm:"type:varchar(20);not null"`
	Quantity      int64        `gorm:"not null"` // Signed delta applied to quantity on hand
	QuantityAfter int64        `gorm:"not null"`
	Reference     string       `gorm:"type:varchar(100);index"` // Originating order ID, if any
	Reason        string       `gorm:"type:varchar(500)"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new movement record for a committed mutation
func NewStockMovement(item *StockItem, movementType MovementType, delta int64, reference, reason string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}

	return &StockMovement{
		ID:            uuid.New(),
		ProductID:     item.ProductID,
		Location:      item.Location,
		Type:          movementType,
		Quantity:      delta,
		QuantityAfter: item.QuantityOnHand,
		Reference:     reference,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}, nil
}
