package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ColorRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"` // hex, e.g. "#FF0000"
}

type ColorResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ColorService interface {
	CreateColor(ctx context.Context, req ColorRequest) (*ColorResponse, error)
	GetColor(ctx context.Context, id uint) (*ColorResponse, error)
	ListColors(ctx context.Context) ([]ColorResponse, error)
	UpdateColor(ctx context.Context, id uint, req ColorRequest) (*ColorResponse, error)
	DeleteColor(ctx context.Context, id uint) error
}

type colorService struct {
	db *gorm.DB
}

func NewColorService(db *gorm.DB) ColorService {
	return &colorService{db: db}
}

func toColorResponse(c model.Color) *ColorResponse {
	return &ColorResponse{ID: c.ID, Name: c.Name, Value: c.Value}
}

func (s *colorService) CreateColor(ctx context.Context, req ColorRequest) (*ColorResponse, error) {
	color := model.Color{Name: req.Name, Value: req.Value}
	if err := s.db.WithContext(ctx).Create(&color).Error; err != nil {
		return nil, fmt.Errorf("failed to create color: %w", err)
	}
	return toColorResponse(color), nil
}

func (s *colorService) GetColor(ctx context.Context, id uint) (*ColorResponse, error) {
	var color model.Color
	if err := s.db.WithContext(ctx).First(&color, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch color: %w", err)
	}
	return toColorResponse(color), nil
}

func (s *colorService) ListColors(ctx context.Context) ([]ColorResponse, error) {
	var colors []model.Color
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&colors).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch colors: %w", err)
	}

	res := make([]ColorResponse, 0, len(colors))
	for _, c := range colors {
		res = append(res, *toColorResponse(c))
	}
	return res, nil
}

func (s *colorService) UpdateColor(ctx context.Context, id uint, req ColorRequest) (*ColorResponse, error) {
	var color model.Color
	if err := s.db.WithContext(ctx).First(&color, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch color: %w", err)
	}

	color.Name = req.Name
	color.Value = req.Value
	if err := s.db.WithContext(ctx).Save(&color).Error; err != nil {
		return nil, fmt.Errorf("failed to update color: %w", err)
	}
	return toColorResponse(color), nil
}

func (s *colorService) DeleteColor(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Color{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete color: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
