package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/pkg/pagination"

	"gorm.io/gorm"
)

type SupplierRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone1    string `json:"phone1"`
	Phone2    string `json:"phone2"`
	Address   string `json:"address"`
}

type SupplierService interface {
	CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, p pagination.Params, search string) ([]model.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, id uint, req SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
}

type supplierService struct {
	db *gorm.DB
}

func NewSupplierService(db *gorm.DB) SupplierService {
	return &supplierService{db: db}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error) {
	supplier := model.Supplier{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Email:     req.Email,
		Phone1:    req.Phone1,
		Phone2:    req.Phone2,
		Address:   req.Address,
	}
	if err := s.db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch supplier: %w", err)
	}
	return &supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, p pagination.Params, search string) ([]model.Supplier, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Supplier{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR company LIKE ? OR email LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	var suppliers []model.Supplier
	if err := query.Order("company ASC, last_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&suppliers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}
	return suppliers, total, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uint, req SupplierRequest) (*model.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.FirstName = req.FirstName
	supplier.LastName = req.LastName
	supplier.Company = req.Company
	supplier.Email = req.Email
	supplier.Phone1 = req.Phone1
	supplier.Phone2 = req.Phone2
	supplier.Address = req.Address

	if err := s.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Supplier{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
