package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/pagination"

	"gorm.io/gorm"
)

// --- DTOs ---

type PurchaseOrderLineRequest struct {
	ProductID     *uint   `json:"product_id"`
	VariationID   *uint   `json:"variation_id"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"gte=0"`
}

type PurchaseOrderFeeRequest struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

type PurchaseOrderRequest struct {
	SupplierID     *uint                      `json:"supplier_id"`
	OrderDate      string                     `json:"order_date" binding:"required"`
	ReductionKind  *string                    `json:"reduction_kind" binding:"omitempty,oneof=percentage substraction"`
	ReductionValue float64                    `json:"reduction_value" binding:"gte=0"`
	Lines          []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	Fees           []PurchaseOrderFeeRequest  `json:"fees" binding:"dive"`
}

// --- Interface ---

type PurchaseOrderService interface {
	CreateOrder(ctx context.Context, actorID *uint, req PurchaseOrderRequest) (*model.PurchaseOrder, error)
	GetOrder(ctx context.Context, id uint) (*model.PurchaseOrder, error)
	ListOrders(ctx context.Context, p pagination.Params) ([]model.PurchaseOrder, int64, error)
	UpdateOrder(ctx context.Context, actorID *uint, id uint, req PurchaseOrderRequest) (*model.PurchaseOrder, error)
	DeleteOrder(ctx context.Context, actorID *uint, id uint) error
}

type purchaseOrderService struct {
	txManager repository.TransactionManager
	db        *gorm.DB
	events    EventPublisher
}

func NewPurchaseOrderService(txManager repository.TransactionManager, db *gorm.DB, events EventPublisher) PurchaseOrderService {
	return &purchaseOrderService{txManager: txManager, db: db, events: events}
}

// --- Implementation ---

// checkLineTargets verifies every line points at an existing product or
// variation before any row is written.
func (s *purchaseOrderService) checkLineTargets(ctx context.Context, lines []PurchaseOrderLineRequest) error {
	db := repository.GetDB(ctx, s.db)
	for _, l := range lines {
		if l.ProductID == nil && l.VariationID == nil {
			return fmt.Errorf("%w: line needs a product or variation", ErrInvalidInput)
		}
		if l.ProductID != nil {
			var count int64
			if err := db.Model(&model.Product{}).Where("id = ?", *l.ProductID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check product: %w", err)
			}
			if count == 0 {
				return fmt.Errorf("%w: product %d", ErrNotFound, *l.ProductID)
			}
		}
		if l.VariationID != nil {
			var count int64
			if err := db.Model(&model.Variation{}).Where("id = ?", *l.VariationID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check variation: %w", err)
			}
			if count == 0 {
				return fmt.Errorf("%w: variation %d", ErrNotFound, *l.VariationID)
			}
		}
	}
	return nil
}

func (s *purchaseOrderService) writeChildren(ctx context.Context, orderID uint, req PurchaseOrderRequest, taxTable []model.Tax) error {
	db := repository.GetDB(ctx, s.db)
	for _, l := range req.Lines {
		line := model.PurchaseOrderLine{
			OrderID:          orderID,
			ProductID:        l.ProductID,
			VariationID:      l.VariationID,
			Quantity:         l.Quantity,
			PurchasePrice:    l.PurchasePrice,
			PurchasePriceTTC: PriceInclTax(l.PurchasePrice, taxTable),
		}
		if err := db.Create(&line).Error; err != nil {
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}
	for _, f := range req.Fees {
		fee := model.PurchaseOrderFee{OrderID: orderID, Name: f.Name, Amount: f.Amount}
		if err := db.Create(&fee).Error; err != nil {
			return fmt.Errorf("failed to create order fee: %w", err)
		}
	}
	return nil
}

func (s *purchaseOrderService) CreateOrder(ctx context.Context, actorID *uint, req PurchaseOrderRequest) (*model.PurchaseOrder, error) {
	var created *model.PurchaseOrder

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkLineTargets(txCtx, req.Lines); err != nil {
			return err
		}

		db := repository.GetDB(txCtx, s.db)

		var taxTable []model.Tax
		if err := db.Order("id ASC").Find(&taxTable).Error; err != nil {
			return fmt.Errorf("failed to fetch taxes: %w", err)
		}

		order := model.PurchaseOrder{
			SupplierID:     req.SupplierID,
			OrderDate:      req.OrderDate,
			ReductionKind:  req.ReductionKind,
			ReductionValue: req.ReductionValue,
		}
		if err := db.Omit("Lines", "Fees").Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		if err := s.writeChildren(txCtx, order.ID, req, taxTable); err != nil {
			return err
		}

		var err error
		created, err = s.getOrder(txCtx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionCreateOrder, strconv.Itoa(int(created.ID)), "", req)
	if s.events != nil {
		s.events.Publish("purchase_order.created", created)
	}
	return created, nil
}

func (s *purchaseOrderService) getOrder(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := repository.GetDB(ctx, s.db).
		Preload("Supplier").
		Preload("Lines").
		Preload("Fees").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch purchase order: %w", err)
	}
	return &order, nil
}

func (s *purchaseOrderService) GetOrder(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	return s.getOrder(ctx, id)
}

func (s *purchaseOrderService) ListOrders(ctx context.Context, p pagination.Params) ([]model.PurchaseOrder, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.PurchaseOrder{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	var orders []model.PurchaseOrder
	err := db.
		Preload("Supplier").
		Preload("Lines").
		Preload("Fees").
		Order("id DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}
	return orders, total, nil
}

// UpdateOrder rewrites the document: header in place, children dropped and
// reinserted, all one transaction.
func (s *purchaseOrderService) UpdateOrder(ctx context.Context, actorID *uint, id uint, req PurchaseOrderRequest) (*model.PurchaseOrder, error) {
	var updated *model.PurchaseOrder

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)

		var order model.PurchaseOrder
		if err := db.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch purchase order: %w", err)
		}

		if err := s.checkLineTargets(txCtx, req.Lines); err != nil {
			return err
		}

		var taxTable []model.Tax
		if err := db.Order("id ASC").Find(&taxTable).Error; err != nil {
			return fmt.Errorf("failed to fetch taxes: %w", err)
		}

		order.SupplierID = req.SupplierID
		order.OrderDate = req.OrderDate
		order.ReductionKind = req.ReductionKind
		order.ReductionValue = req.ReductionValue
		if err := db.Omit("Lines", "Fees").Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}

		if err := db.Where("order_id = ?", id).Delete(&model.PurchaseOrderLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear order lines: %w", err)
		}
		if err := db.Where("order_id = ?", id).Delete(&model.PurchaseOrderFee{}).Error; err != nil {
			return fmt.Errorf("failed to clear order fees: %w", err)
		}

		if err := s.writeChildren(txCtx, id, req, taxTable); err != nil {
			return err
		}

		var err error
		updated, err = s.getOrder(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionUpdateOrder, strconv.Itoa(int(id)), "", req)
	if s.events != nil {
		s.events.Publish("purchase_order.updated", updated)
	}
	return updated, nil
}

func (s *purchaseOrderService) DeleteOrder(ctx context.Context, actorID *uint, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)

		res := db.Delete(&model.PurchaseOrder{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete purchase order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := db.Where("order_id = ?", id).Delete(&model.PurchaseOrderLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err := db.Where("order_id = ?", id).Delete(&model.PurchaseOrderFee{}).Error; err != nil {
			return fmt.Errorf("failed to delete order fees: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionDeleteOrder, strconv.Itoa(int(id)), "", nil)
	if s.events != nil {
		s.events.Publish("purchase_order.deleted", map[string]uint{"id": id})
	}
	return nil
}
