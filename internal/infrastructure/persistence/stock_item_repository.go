package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/shared"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProductAndLocation finds the stock item for a product-location pair
func (r *GormStockItemRepository) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location = ?", productID, location).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProduct finds stock items for a product across all locations
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.StockItem, error) {
	var items []*inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByLocation finds stock items in a location with pagination
func (r *GormStockItemRepository) FindByLocation(ctx context.Context, location string, filter shared.Filter) (*shared.Paginated[*inventory.StockItem], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockItem{}).Where("location = ?", location)
	return r.paginate(query, filter)
}

// FindAll finds all stock items with pagination
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.StockItem], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockItem{})
	return r.paginate(query, filter)
}

// FindBelowMinimum finds items whose on-hand quantity is under the replenishment threshold
func (r *GormStockItemRepository) FindBelowMinimum(ctx context.Context) ([]*inventory.StockItem, error) {
	var items []*inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("min_level > 0 AND quantity_on_hand < min_level").
		Order("quantity_on_hand ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock persists the item only if the stored version matches expectedVersion
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem, expectedVersion int) error {
	item.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("id = ? AND version = ?", item.ID, expectedVersion).
		Updates(map[string]interface{}{
			"quantity_on_hand": item.QuantityOnHand,
			"min_level":        item.MinLevel,
			"max_level":        item.MaxLevel,
			"lot":              item.Lot,
			"version":          item.Version,
			"updated_at":       item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormStockItemRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[*inventory.StockItem], error) {
	query = applyStockFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	query = applyOrdering(query, filter, StockItemSortFields, "created_at")

	var items []*inventory.StockItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(items, total, page, pageSize)
	return &result, nil
}

func applyStockFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location":
			query = query.Where("location = ?", value)
		case "lot":
			query = query.Where("lot = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_level > 0 AND quantity_on_hand < min_level")
			}
		case "has_stock":
			if value == true {
				query = query.Where("quantity_on_hand > 0")
			}
		}
	}
	return query
}

func normalizePage(filter shared.Filter) (page, pageSize int) {
	page = filter.Page
	if page < 1 {
		page = 1
	}
	pageSize = filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir)
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
