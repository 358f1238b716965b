package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treadline/backend/internal/domain/order"
	"github.com/treadline/backend/internal/domain/shared"
)

// GormOrderRepository implements OrderRepository using GORM.
// The order header and its lines are always written in one transaction.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order with its lines by order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll finds orders of every kind with pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{})
	return r.paginate(query, filter)
}

// FindByKind finds orders of one kind with pagination
func (r *GormOrderRepository) FindByKind(ctx context.Context, kind order.OrderKind, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("kind = ?", kind)
	return r.paginate(query, filter)
}

// FindByStatus finds orders of one kind in one status with pagination
func (r *GormOrderRepository) FindByStatus(ctx context.Context, kind order.OrderKind, status order.OrderStatus, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("kind = ? AND status = ?", kind, status)
	return r.paginate(query, filter)
}

// FindByCounterparty finds orders for a customer or supplier with pagination
func (r *GormOrderRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("counterparty_id = ?", counterpartyID)
	return r.paginate(query, filter)
}

// Save creates or updates an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(o).Error; err != nil {
			return err
		}
		return r.saveLines(tx, o)
	})
}

// SaveWithLock persists the order only if the stored version matches
// expectedVersion, returning shared.ErrConcurrencyConflict otherwise.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o.UpdatedAt = time.Now()

		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, expectedVersion).
			Updates(map[string]interface{}{
				"counterparty_id":   o.CounterpartyID,
				"counterparty_name": o.CounterpartyName,
				"total_amount":      o.TotalAmount,
				"status":            o.Status,
				"due_date":          o.DueDate,
				"remark":            o.Remark,
				"approved_at":       o.ApprovedAt,
				"received_at":       o.ReceivedAt,
				"started_at":        o.StartedAt,
				"completed_at":      o.CompletedAt,
				"cancelled_at":      o.CancelledAt,
				"cancel_reason":     o.CancelReason,
				"version":           o.Version,
				"updated_at":        o.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.saveLines(tx, o)
	})
}

// Delete removes an order and its lines
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&order.OrderLine{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&order.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders of one kind
func (r *GormOrderRepository) Count(ctx context.Context, kind order.OrderKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("kind = ?", kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveLines reconciles the stored lines with the aggregate's current lines:
// removed lines are deleted, the rest are upserted.
func (r *GormOrderRepository) saveLines(tx *gorm.DB, o *order.Order) error {
	currentLineIDs := make([]uuid.UUID, len(o.Lines))
	for i, line := range o.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentLineIDs).
			Delete(&order.OrderLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", o.ID).
			Delete(&order.OrderLine{}).Error; err != nil {
			return err
		}
	}

	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
		if err := tx.Save(&o.Lines[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *GormOrderRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	query = applyOrderFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	query = applyOrdering(query, filter, OrderSortFields, "created_at")

	var orders []*order.Order
	if err := query.Preload("Lines").Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, page, pageSize)
	return &result, nil
}

func applyOrderFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR counterparty_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "counterparty_id":
			query = query.Where("counterparty_id = ?", value)
		case "due_before":
			query = query.Where("due_date <= ?", value)
		case "due_after":
			query = query.Where("due_date >= ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
