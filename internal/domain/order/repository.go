package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/treadline/backend/internal/domain/shared"
)

// OrderRepository defines the persistence contract for orders.
// Implementations persist the header and its lines together.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Order], error)
	FindByKind(ctx context.Context, kind OrderKind, filter shared.Filter) (*shared.Paginated[*Order], error)
	FindByStatus(ctx context.Context, kind OrderKind, status OrderStatus, filter shared.Filter) (*shared.Paginated[*Order], error)
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Order], error)
	Save(ctx context.Context, o *Order) error
	// SaveWithLock persists the order only if the stored version matches,
	// returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, o *Order, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, kind OrderKind) (int64, error)
}
