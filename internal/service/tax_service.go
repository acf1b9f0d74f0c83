package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

// --- DTOs ---

type TaxRequest struct {
	Name  string  `json:"name" binding:"required"`
	Value float64 `json:"value" binding:"required"`
	Kind  string  `json:"kind" binding:"required,oneof=percentage addition"`
}

type TaxResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Kind  string  `json:"kind"`
}

// --- Interface ---

// TaxService manages the tax table. The whole table feeds the tax-inclusive
// price derivation, so every mutation here shifts product TTC prices the
// next time they are written.
type TaxService interface {
	CreateTax(ctx context.Context, actorID *uint, req TaxRequest) (*TaxResponse, error)
	GetTax(ctx context.Context, id uint) (*TaxResponse, error)
	ListTaxes(ctx context.Context) ([]TaxResponse, error)
	UpdateTax(ctx context.Context, actorID *uint, id uint, req TaxRequest) (*TaxResponse, error)
	DeleteTax(ctx context.Context, actorID *uint, id uint) error
}

type taxService struct {
	db *gorm.DB
}

func NewTaxService(db *gorm.DB) TaxService {
	return &taxService{db: db}
}

// --- Implementation ---

func toTaxResponse(t model.Tax) TaxResponse {
	return TaxResponse{ID: t.ID, Name: t.Name, Value: t.Value, Kind: t.Kind}
}

func (s *taxService) CreateTax(ctx context.Context, actorID *uint, req TaxRequest) (*TaxResponse, error) {
	tax := model.Tax{Name: req.Name, Value: req.Value, Kind: req.Kind}
	if err := s.db.WithContext(ctx).Create(&tax).Error; err != nil {
		return nil, fmt.Errorf("failed to create tax: %w", err)
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionCreateTax, fmt.Sprint(tax.ID), tax.Name, req)

	res := toTaxResponse(tax)
	return &res, nil
}

func (s *taxService) GetTax(ctx context.Context, id uint) (*TaxResponse, error) {
	var tax model.Tax
	if err := s.db.WithContext(ctx).First(&tax, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tax: %w", err)
	}

	res := toTaxResponse(tax)
	return &res, nil
}

// ListTaxes returns the table in storage order; the price derivation relies
// on that order being stable.
func (s *taxService) ListTaxes(ctx context.Context) ([]TaxResponse, error) {
	var taxes []model.Tax
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&taxes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch taxes: %w", err)
	}

	res := make([]TaxResponse, 0, len(taxes))
	for _, t := range taxes {
		res = append(res, toTaxResponse(t))
	}
	return res, nil
}

func (s *taxService) UpdateTax(ctx context.Context, actorID *uint, id uint, req TaxRequest) (*TaxResponse, error) {
	var tax model.Tax
	if err := s.db.WithContext(ctx).First(&tax, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tax: %w", err)
	}

	tax.Name = req.Name
	tax.Value = req.Value
	tax.Kind = req.Kind

	if err := s.db.WithContext(ctx).Save(&tax).Error; err != nil {
		return nil, fmt.Errorf("failed to update tax: %w", err)
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionUpdateTax, fmt.Sprint(tax.ID), tax.Name, req)

	res := toTaxResponse(tax)
	return &res, nil
}

func (s *taxService) DeleteTax(ctx context.Context, actorID *uint, id uint) error {
	var tax model.Tax
	if err := s.db.WithContext(ctx).First(&tax, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch tax: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&tax).Error; err != nil {
		return fmt.Errorf("failed to delete tax: %w", err)
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionDeleteTax, fmt.Sprint(id), tax.Name, nil)
	return nil
}
