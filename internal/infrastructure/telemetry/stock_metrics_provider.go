// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider using GORM.
// It queries the stock_items table directly for aggregated metrics.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// GetOnHandByLocation returns total quantity on hand per storage location.
func (p *GormStockMetricsProvider) GetOnHandByLocation(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Location   string `gorm:"column:location"`
		QuantityOn int64  `gorm:"column:quantity_on_hand"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("stock_items").
		Select("location, COALESCE(SUM(quantity_on_hand), 0) as quantity_on_hand").
		Group("location").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Location] = r.QuantityOn
	}

	return m, nil
}

// GetLowStockCount returns count of stock items below their minimum threshold.
func (p *GormStockMetricsProvider) GetLowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("stock_items").
		Where("min_level > 0 AND quantity_on_hand < min_level").
		Count(&count).Error

	return count, err
}
