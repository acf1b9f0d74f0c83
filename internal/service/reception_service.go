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

type ReceptionLineRequest struct {
	ProductID   *uint `json:"product_id"`
	VariationID *uint `json:"variation_id"`
	Quantity    int   `json:"quantity" binding:"required,gt=0"`
}

type ReceptionRequest struct {
	PurchaseOrderID *uint                  `json:"purchase_order_id"`
	DelivererName   string                 `json:"deliverer_name"`
	ReceptionDate   string                 `json:"reception_date" binding:"required"`
	Lines           []ReceptionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// --- Interface ---

type ReceptionService interface {
	CreateReception(ctx context.Context, actorID *uint, req ReceptionRequest) (*model.Reception, error)
	GetReception(ctx context.Context, id uint) (*model.Reception, error)
	ListReceptions(ctx context.Context, p pagination.Params) ([]model.Reception, int64, error)
	UpdateReception(ctx context.Context, actorID *uint, id uint, req ReceptionRequest) (*model.Reception, error)
	DeleteReception(ctx context.Context, actorID *uint, id uint) error
}

type receptionService struct {
	txManager repository.TransactionManager
	db        *gorm.DB
	events    EventPublisher
}

func NewReceptionService(txManager repository.TransactionManager, db *gorm.DB, events EventPublisher) ReceptionService {
	return &receptionService{txManager: txManager, db: db, events: events}
}

// --- Implementation ---

// applyStockDelta shifts stock on the received product or variation. sign is
// +1 when booking a reception and -1 when unwinding one.
func applyStockDelta(db *gorm.DB, lines []model.ReceptionLine, sign int) error {
	for _, l := range lines {
		delta := sign * l.Quantity
		if l.VariationID != nil {
			err := db.Model(&model.Variation{}).
				Where("id = ?", *l.VariationID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
			if err != nil {
				return fmt.Errorf("failed to adjust variation stock: %w", err)
			}
			continue
		}
		if l.ProductID != nil {
			err := db.Model(&model.Product{}).
				Where("id = ?", *l.ProductID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
			if err != nil {
				return fmt.Errorf("failed to adjust product stock: %w", err)
			}
		}
	}
	return nil
}

func (s *receptionService) checkLineTargets(ctx context.Context, lines []ReceptionLineRequest) error {
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

func toReceptionLines(receptionID uint, reqs []ReceptionLineRequest) []model.ReceptionLine {
	lines := make([]model.ReceptionLine, 0, len(reqs))
	for _, l := range reqs {
		lines = append(lines, model.ReceptionLine{
			ReceptionID: receptionID,
			ProductID:   l.ProductID,
			VariationID: l.VariationID,
			Quantity:    l.Quantity,
		})
	}
	return lines
}

func (s *receptionService) CreateReception(ctx context.Context, actorID *uint, req ReceptionRequest) (*model.Reception, error) {
	var created *model.Reception

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkLineTargets(txCtx, req.Lines); err != nil {
			return err
		}

		db := repository.GetDB(txCtx, s.db)

		if req.PurchaseOrderID != nil {
			var count int64
			if err := db.Model(&model.PurchaseOrder{}).Where("id = ?", *req.PurchaseOrderID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check purchase order: %w", err)
			}
			if count == 0 {
				return fmt.Errorf("%w: purchase order", ErrNotFound)
			}
		}

		reception := model.Reception{
			PurchaseOrderID: req.PurchaseOrderID,
			DelivererName:   req.DelivererName,
			ReceptionDate:   req.ReceptionDate,
		}
		if err := db.Omit("Lines").Create(&reception).Error; err != nil {
			return fmt.Errorf("failed to create reception: %w", err)
		}

		lines := toReceptionLines(reception.ID, req.Lines)
		for i := range lines {
			if err := db.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("failed to create reception line: %w", err)
			}
		}

		if err := applyStockDelta(db, lines, 1); err != nil {
			return err
		}

		var err error
		created, err = s.getReception(txCtx, reception.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionCreateRecep, strconv.Itoa(int(created.ID)), "", req)
	if s.events != nil {
		s.events.Publish("reception.created", created)
	}
	return created, nil
}

func (s *receptionService) getReception(ctx context.Context, id uint) (*model.Reception, error) {
	var reception model.Reception
	err := repository.GetDB(ctx, s.db).
		Preload("PurchaseOrder").
		Preload("Lines").
		First(&reception, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch reception: %w", err)
	}
	return &reception, nil
}

func (s *receptionService) GetReception(ctx context.Context, id uint) (*model.Reception, error) {
	return s.getReception(ctx, id)
}

func (s *receptionService) ListReceptions(ctx context.Context, p pagination.Params) ([]model.Reception, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Reception{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count receptions: %w", err)
	}

	var receptions []model.Reception
	err := db.
		Preload("PurchaseOrder").
		Preload("Lines").
		Order("id DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&receptions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch receptions: %w", err)
	}
	return receptions, total, nil
}

// UpdateReception unwinds the old lines' stock effect, rewrites the document
// and books the new lines, all inside one transaction.
func (s *receptionService) UpdateReception(ctx context.Context, actorID *uint, id uint, req ReceptionRequest) (*model.Reception, error) {
	var updated *model.Reception

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)

		var reception model.Reception
		if err := db.Preload("Lines").First(&reception, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch reception: %w", err)
		}

		if err := s.checkLineTargets(txCtx, req.Lines); err != nil {
			return err
		}

		if err := applyStockDelta(db, reception.Lines, -1); err != nil {
			return err
		}
		if err := db.Where("reception_id = ?", id).Delete(&model.ReceptionLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear reception lines: %w", err)
		}

		reception.PurchaseOrderID = req.PurchaseOrderID
		reception.DelivererName = req.DelivererName
		reception.ReceptionDate = req.ReceptionDate
		if err := db.Omit("Lines", "PurchaseOrder").Save(&reception).Error; err != nil {
			return fmt.Errorf("failed to update reception: %w", err)
		}

		lines := toReceptionLines(id, req.Lines)
		for i := range lines {
			if err := db.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("failed to create reception line: %w", err)
			}
		}
		if err := applyStockDelta(db, lines, 1); err != nil {
			return err
		}

		var err error
		updated, err = s.getReception(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionUpdateRecep, strconv.Itoa(int(id)), "", req)
	if s.events != nil {
		s.events.Publish("reception.updated", updated)
	}
	return updated, nil
}

func (s *receptionService) DeleteReception(ctx context.Context, actorID *uint, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)

		var reception model.Reception
		if err := db.Preload("Lines").First(&reception, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch reception: %w", err)
		}

		if err := applyStockDelta(db, reception.Lines, -1); err != nil {
			return err
		}
		if err := db.Where("reception_id = ?", id).Delete(&model.ReceptionLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete reception lines: %w", err)
		}
		if err := db.Delete(&model.Reception{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete reception: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionDeleteRecep, strconv.Itoa(int(id)), "", nil)
	if s.events != nil {
		s.events.Publish("reception.deleted", map[string]uint{"id": id})
	}
	return nil
}
