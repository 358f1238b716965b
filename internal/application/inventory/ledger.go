package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/shared"
)

// InventoryLedger is the single source of truth for on-hand quantities
// and the only component permitted to mutate them. Reserve, Release,
// Receive and AdjustStock are serialized per (product, location) key so
// two concurrent reservations cannot both pass the availability check
// and drive the quantity negative. Every committed mutation appends a
// StockMovement journal entry.
type InventoryLedger struct {
	itemRepo       inventory.StockItemRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
	locks          *keyedMutex
	logger         *zap.Logger
}

// NewInventoryLedger creates a new InventoryLedger
func NewInventoryLedger(
	itemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *InventoryLedger {
	return &InventoryLedger{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		locks:        newKeyedMutex(),
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (l *InventoryLedger) SetEventPublisher(publisher shared.EventPublisher) {
	l.eventPublisher = publisher
}

// Reserve decreases the on-hand quantity for a stock-consuming order line.
// Returns *inventory.InsufficientStockError without mutating when the
// requested quantity exceeds availability. The decrement is persisted
// immediately; callers undo it with a compensating Release.
func (l *InventoryLedger) Reserve(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error {
	return l.mutate(ctx, productID, location, inventory.MovementTypeReserve, reference, "",
		func(item *inventory.StockItem) (int64, error) {
			if err := item.Reserve(quantity); err != nil {
				return 0, err
			}
			return -quantity, nil
		})
}

// Release increases the on-hand quantity, undoing a prior Reserve on
// order cancellation or transaction rollback
func (l *InventoryLedger) Release(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error {
	return l.mutate(ctx, productID, location, inventory.MovementTypeRelease, reference, "",
		func(item *inventory.StockItem) (int64, error) {
			if err := item.Release(quantity); err != nil {
				return 0, err
			}
			return quantity, nil
		})
}

// Receive increases the on-hand quantity for stock-producing flows
// (purchase receipt, production completion, manual intake), subject to
// the capacity bound. The stock item row is created on first receipt.
func (l *InventoryLedger) Receive(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error {
	key := stockKey(productID, location)
	l.locks.Lock(key)
	defer l.locks.Unlock(key)

	item, created, err := l.findOrCreate(ctx, productID, location)
	if err != nil {
		return err
	}

	expected := item.Version
	if err := item.Receive(quantity); err != nil {
		return err
	}

	if created {
		err = l.itemRepo.Save(ctx, item)
	} else {
		err = l.itemRepo.SaveWithLock(ctx, item, expected)
	}
	if err != nil {
		return err
	}

	l.recordMovement(ctx, item, inventory.MovementTypeReceive, quantity, reference, "")
	l.publishDomainEvents(ctx, item)

	return nil
}

// ReverseReceipt undoes a Receive applied earlier in the same logical
// operation, compensating a partially failed multi-line receipt
func (l *InventoryLedger) ReverseReceipt(ctx context.Context, productID uuid.UUID, location string, quantity int64, reference string) error {
	return l.mutate(ctx, productID, location, inventory.MovementTypeAdjust, reference, "receipt reversal",
		func(item *inventory.StockItem) (int64, error) {
			if err := item.ReverseReceipt(quantity); err != nil {
				return 0, err
			}
			return -quantity, nil
		})
}

// ReceiveIntake handles the manual-intake path, tagging the lot when given
func (l *InventoryLedger) ReceiveIntake(ctx context.Context, req ReceiveStockRequest) (*StockItemResponse, error) {
	if err := l.Receive(ctx, req.ProductID, req.Location, req.Quantity, req.Reference); err != nil {
		return nil, err
	}

	if req.Lot != "" {
		key := stockKey(req.ProductID, req.Location)
		l.locks.Lock(key)
		item, err := l.itemRepo.FindByProductAndLocation(ctx, req.ProductID, req.Location)
		if err != nil {
			l.locks.Unlock(key)
			return nil, err
		}
		expected := item.Version
		item.SetLot(req.Lot)
		if err := l.itemRepo.SaveWithLock(ctx, item, expected); err != nil {
			l.locks.Unlock(key)
			return nil, err
		}
		l.locks.Unlock(key)
	}

	item, err := l.itemRepo.FindByProductAndLocation(ctx, req.ProductID, req.Location)
	if err != nil {
		return nil, err
	}
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// AdjustStock applies a manual delta adjustment (stock taking, damage
// write-off). The resulting quantity must satisfy the full min/max
// window; rejected adjustments leave no partial mutation.
func (l *InventoryLedger) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockItemResponse, error) {
	key := stockKey(req.ProductID, req.Location)
	l.locks.Lock(key)
	defer l.locks.Unlock(key)

	item, err := l.itemRepo.FindByProductAndLocation(ctx, req.ProductID, req.Location)
	if err != nil {
		return nil, err
	}

	expected := item.Version
	if err := item.AdjustTo(item.QuantityOnHand+req.Delta, req.Reason); err != nil {
		return nil, err
	}

	if err := l.itemRepo.SaveWithLock(ctx, item, expected); err != nil {
		return nil, err
	}

	l.recordMovement(ctx, item, inventory.MovementTypeAdjust, req.Delta, "", req.Reason)
	l.publishDomainEvents(ctx, item)

	resp := ToStockItemResponse(item)
	return &resp, nil
}

// SetLevels sets the replenishment threshold and capacity bound for a stock item
func (l *InventoryLedger) SetLevels(ctx context.Context, req SetLevelsRequest) (*StockItemResponse, error) {
	key := stockKey(req.ProductID, req.Location)
	l.locks.Lock(key)
	defer l.locks.Unlock(key)

	item, err := l.itemRepo.FindByProductAndLocation(ctx, req.ProductID, req.Location)
	if err != nil {
		return nil, err
	}

	expected := item.Version
	if err := item.SetLevels(req.MinLevel, req.MaxLevel); err != nil {
		return nil, err
	}

	if err := l.itemRepo.SaveWithLock(ctx, item, expected); err != nil {
		return nil, err
	}

	resp := ToStockItemResponse(item)
	return &resp, nil
}

// CheckBounds verifies a proposed quantity against the item's min/max
// window. Pure check, no mutation.
func (l *InventoryLedger) CheckBounds(ctx context.Context, productID uuid.UUID, location string, proposed int64) error {
	item, err := l.itemRepo.FindByProductAndLocation(ctx, productID, location)
	if err != nil {
		return err
	}
	return item.CheckBounds(proposed)
}

// GetStock retrieves the stock item for a product-location combination
func (l *InventoryLedger) GetStock(ctx context.Context, productID uuid.UUID, location string) (*StockItemResponse, error) {
	item, err := l.itemRepo.FindByProductAndLocation(ctx, productID, location)
	if err != nil {
		return nil, err
	}
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// List retrieves stock items with filtering and pagination
func (l *InventoryLedger) List(ctx context.Context, filter StockListFilter) (*shared.Paginated[StockItemResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}
	if filter.Location != nil {
		f.Filters["location"] = *filter.Location
	}

	var (
		page *shared.Paginated[*inventory.StockItem]
		err  error
	)
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		items, ferr := l.itemRepo.FindBelowMinimum(ctx)
		if ferr != nil {
			return nil, ferr
		}
		pageSize := len(items)
		if pageSize == 0 {
			pageSize = 1
		}
		p := shared.NewPaginated(items, int64(len(items)), 1, pageSize)
		page = &p
	} else {
		page, err = l.itemRepo.FindAll(ctx, f)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]StockItemResponse, len(page.Items))
	for i, item := range page.Items {
		responses[i] = ToStockItemResponse(item)
	}

	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListMovements retrieves the movement journal for a product-location combination
func (l *InventoryLedger) ListMovements(ctx context.Context, productID uuid.UUID, location string, filter shared.Filter) (*shared.Paginated[StockMovementResponse], error) {
	page, err := l.movementRepo.FindByProductAndLocation(ctx, productID, location, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, len(page.Items))
	for i, m := range page.Items {
		responses[i] = ToStockMovementResponse(m)
	}

	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// mutate runs one locked load-mutate-persist cycle for an existing stock
// item. The op returns the signed delta for the movement journal.
func (l *InventoryLedger) mutate(ctx context.Context, productID uuid.UUID, location string, movementType inventory.MovementType, reference, reason string, op func(*inventory.StockItem) (int64, error)) error {
	key := stockKey(productID, location)
	l.locks.Lock(key)
	defer l.locks.Unlock(key)

	item, err := l.itemRepo.FindByProductAndLocation(ctx, productID, location)
	if err != nil {
		return err
	}

	expected := item.Version
	delta, err := op(item)
	if err != nil {
		return err
	}

	if err := l.itemRepo.SaveWithLock(ctx, item, expected); err != nil {
		return err
	}

	l.recordMovement(ctx, item, movementType, delta, reference, reason)
	l.publishDomainEvents(ctx, item)

	return nil
}

// findOrCreate loads the stock item, creating an empty row for the first receipt
func (l *InventoryLedger) findOrCreate(ctx context.Context, productID uuid.UUID, location string) (*inventory.StockItem, bool, error) {
	item, err := l.itemRepo.FindByProductAndLocation(ctx, productID, location)
	if err == nil {
		return item, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	item, err = inventory.NewStockItem(productID, location)
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// recordMovement appends a journal entry for a committed mutation.
// Journal failures are logged, not propagated: the stock change is
// already durable and must not be rolled back by audit plumbing.
func (l *InventoryLedger) recordMovement(ctx context.Context, item *inventory.StockItem, movementType inventory.MovementType, delta int64, reference, reason string) {
	movement, err := inventory.NewStockMovement(item, movementType, delta, reference, reason)
	if err != nil {
		l.logger.Error("failed to build stock movement", zap.Error(err))
		return
	}
	if err := l.movementRepo.Append(ctx, movement); err != nil {
		l.logger.Error("failed to append stock movement",
			zap.String("product_id", item.ProductID.String()),
			zap.String("location", item.Location),
			zap.Error(err))
	}
}

// publishDomainEvents publishes all domain events from the stock item
func (l *InventoryLedger) publishDomainEvents(ctx context.Context, item *inventory.StockItem) {
	if l.eventPublisher == nil {
		item.ClearDomainEvents()
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = l.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}
