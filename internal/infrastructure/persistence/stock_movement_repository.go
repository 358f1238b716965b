package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/shared"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are append-only; there is no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append records a new stock movement
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByProductAndLocation finds movements for a product-location pair, newest first
func (r *GormStockMovementRepository) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string, filter shared.Filter) (*shared.Paginated[*inventory.StockMovement], error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("product_id = ? AND location = ?", productID, location)

	if movementType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", movementType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter)
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	query = applyOrdering(query, filter, StockMovementSortFields, "created_at")

	var movements []*inventory.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(movements, total, page, pageSize)
	return &result, nil
}

// FindByReference finds all movements recorded against a reference, oldest first
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, reference string) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
