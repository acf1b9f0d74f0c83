package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	ProductCount       int64           `json:"product_count"`
	ClientCount        int64           `json:"client_count"`
	SupplierCount      int64           `json:"supplier_count"`
	PurchaseOrderCount int64           `json:"purchase_order_count"`
	ReceptionCount     int64           `json:"reception_count"`
	LowStock           []model.Product `json:"low_stock"`
	RecentSpend        float64         `json:"recent_spend"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) DashboardService {
	return &dashboardService{db: db}
}

const lowStockThreshold = 5

func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&model.Product{}, &stats.ProductCount},
		{&model.Client{}, &stats.ClientCount},
		{&model.Supplier{}, &stats.SupplierCount},
		{&model.PurchaseOrder{}, &stats.PurchaseOrderCount},
		{&model.Reception{}, &stats.ReceptionCount},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	err := db.
		Where("active = ? AND stock_quantity <= ?", true, lowStockThreshold).
		Order("stock_quantity ASC").
		Limit(10).
		Find(&stats.LowStock).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}

	// Sum of order line totals plus fees over the last 30 days.
	since := time.Now().AddDate(0, 0, -30)

	var lineSpend float64
	err = db.Model(&model.PurchaseOrderLine{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_lines.order_id").
		Where("purchase_orders.created_at >= ?", since).
		Select("COALESCE(SUM(purchase_order_lines.purchase_price_ttc * purchase_order_lines.quantity), 0)").
		Scan(&lineSpend).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute recent spend: %w", err)
	}

	var feeSpend float64
	err = db.Model(&model.PurchaseOrderFee{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_fees.order_id").
		Where("purchase_orders.created_at >= ?", since).
		Select("COALESCE(SUM(purchase_order_fees.amount), 0)").
		Scan(&feeSpend).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute recent fees: %w", err)
	}

	stats.RecentSpend = lineSpend + feeSpend
	return stats, nil
}
