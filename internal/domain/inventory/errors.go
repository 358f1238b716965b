package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// InsufficientStockError is returned when a reservation would drive
// quantity on hand below zero. No mutation happens when it is returned.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Location  string
	Requested int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s at %q: requested %d, available %d",
		e.ProductID, e.Location, e.Requested, e.Available)
}

// OutOfBoundsError is returned when a receipt or manual adjustment would
// push quantity on hand outside the configured [min, max] levels.
type OutOfBoundsError struct {
	ProductID uuid.UUID
	Location  string
	Min       int64
	Max       int64
	Requested int64
}

// Error implements the error interface
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("stock level %d for product %s at %q outside bounds [%d, %d]",
		e.Requested, e.ProductID, e.Location, e.Min, e.Max)
}
