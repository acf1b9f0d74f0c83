package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

type BrandRequest struct {
	Name string `json:"name" binding:"required"`
}

type BrandResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BrandService interface {
	CreateBrand(ctx context.Context, req BrandRequest) (*BrandResponse, error)
	GetBrand(ctx context.Context, id uint) (*BrandResponse, error)
	ListBrands(ctx context.Context) ([]BrandResponse, error)
	UpdateBrand(ctx context.Context, id uint, req BrandRequest) (*BrandResponse, error)
	DeleteBrand(ctx context.Context, id uint) error
}

type brandService struct {
	db *gorm.DB
}

func NewBrandService(db *gorm.DB) BrandService {
	return &brandService{db: db}
}

func (s *brandService) CreateBrand(ctx context.Context, req BrandRequest) (*BrandResponse, error) {
	brand := model.Brand{Name: req.Name}
	if err := s.db.WithContext(ctx).Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	return &BrandResponse{ID: brand.ID, Name: brand.Name}, nil
}

func (s *brandService) GetBrand(ctx context.Context, id uint) (*BrandResponse, error) {
	var brand model.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch brand: %w", err)
	}
	return &BrandResponse{ID: brand.ID, Name: brand.Name}, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]BrandResponse, error) {
	var brands []model.Brand
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}

	res := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		res = append(res, BrandResponse{ID: b.ID, Name: b.Name})
	}
	return res, nil
}

func (s *brandService) UpdateBrand(ctx context.Context, id uint, req BrandRequest) (*BrandResponse, error) {
	var brand model.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch brand: %w", err)
	}

	brand.Name = req.Name
	if err := s.db.WithContext(ctx).Save(&brand).Error; err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return &BrandResponse{ID: brand.ID, Name: brand.Name}, nil
}

func (s *brandService) DeleteBrand(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Brand{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete brand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
