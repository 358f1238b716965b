package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/treadline/backend/internal/domain/shared"
)

// StockItemRepository defines the persistence contract for stock items
type StockItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*StockItem, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*StockItem, error)
	FindByLocation(ctx context.Context, location string, filter shared.Filter) (*shared.Paginated[*StockItem], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*StockItem], error)
	FindBelowMinimum(ctx context.Context) ([]*StockItem, error)
	Save(ctx context.Context, item *StockItem) error
	// SaveWithLock persists the item only if the stored version matches,
	// returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, item *StockItem, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockMovementRepository records the append-only movement journal
type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string, filter shared.Filter) (*shared.Paginated[*StockMovement], error)
	FindByReference(ctx context.Context, reference string) ([]*StockMovement, error)
}
