package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

type AttributeRequest struct {
	Name   string   `json:"name" binding:"required"`
	Values []string `json:"values"`
}

type AttributeValueResponse struct {
	ID    uint   `json:"id"`
	Value string `json:"value"`
}

type AttributeResponse struct {
	ID     uint                     `json:"id"`
	Name   string                   `json:"name"`
	Values []AttributeValueResponse `json:"values"`
}

type AttributeService interface {
	CreateAttribute(ctx context.Context, req AttributeRequest) (*AttributeResponse, error)
	GetAttribute(ctx context.Context, id uint) (*AttributeResponse, error)
	ListAttributes(ctx context.Context) ([]AttributeResponse, error)
	UpdateAttribute(ctx context.Context, id uint, req AttributeRequest) (*AttributeResponse, error)
	DeleteAttribute(ctx context.Context, id uint) error
	AddValue(ctx context.Context, attributeID uint, value string) (*AttributeValueResponse, error)
	RemoveValue(ctx context.Context, attributeID, valueID uint) error
}

type attributeService struct {
	db *gorm.DB
}

func NewAttributeService(db *gorm.DB) AttributeService {
	return &attributeService{db: db}
}

func toAttributeResponse(a model.Attribute) *AttributeResponse {
	values := make([]AttributeValueResponse, 0, len(a.Values))
	for _, v := range a.Values {
		values = append(values, AttributeValueResponse{ID: v.ID, Value: v.Value})
	}
	return &AttributeResponse{ID: a.ID, Name: a.Name, Values: values}
}

func (s *attributeService) CreateAttribute(ctx context.Context, req AttributeRequest) (*AttributeResponse, error) {
	attr := model.Attribute{Name: req.Name}
	for _, v := range req.Values {
		attr.Values = append(attr.Values, model.AttributeValue{Value: v})
	}

	if err := s.db.WithContext(ctx).Create(&attr).Error; err != nil {
		return nil, fmt.Errorf("failed to create attribute: %w", err)
	}
	return toAttributeResponse(attr), nil
}

func (s *attributeService) GetAttribute(ctx context.Context, id uint) (*AttributeResponse, error) {
	var attr model.Attribute
	if err := s.db.WithContext(ctx).Preload("Values").First(&attr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch attribute: %w", err)
	}
	return toAttributeResponse(attr), nil
}

func (s *attributeService) ListAttributes(ctx context.Context) ([]AttributeResponse, error) {
	var attrs []model.Attribute
	if err := s.db.WithContext(ctx).Preload("Values").Order("name ASC").Find(&attrs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch attributes: %w", err)
	}

	res := make([]AttributeResponse, 0, len(attrs))
	for _, a := range attrs {
		res = append(res, *toAttributeResponse(a))
	}
	return res, nil
}

// UpdateAttribute renames the attribute and, when req.Values is non-nil,
// replaces the value list wholesale inside one transaction.
func (s *attributeService) UpdateAttribute(ctx context.Context, id uint, req AttributeRequest) (*AttributeResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attr model.Attribute
		if err := tx.First(&attr, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch attribute: %w", err)
		}

		attr.Name = req.Name
		if err := tx.Save(&attr).Error; err != nil {
			return fmt.Errorf("failed to update attribute: %w", err)
		}

		if req.Values == nil {
			return nil
		}

		if err := tx.Where("attribute_id = ?", id).Delete(&model.AttributeValue{}).Error; err != nil {
			return fmt.Errorf("failed to clear attribute values: %w", err)
		}
		for _, v := range req.Values {
			av := model.AttributeValue{AttributeID: id, Value: v}
			if err := tx.Create(&av).Error; err != nil {
				return fmt.Errorf("failed to create attribute value: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetAttribute(ctx, id)
}

func (s *attributeService) DeleteAttribute(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Attribute{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete attribute: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// SQLite honors the cascade only with foreign keys on; clear
		// explicitly so the values never outlive their attribute.
		if err := tx.Where("attribute_id = ?", id).Delete(&model.AttributeValue{}).Error; err != nil {
			return fmt.Errorf("failed to delete attribute values: %w", err)
		}
		return nil
	})
}

func (s *attributeService) AddValue(ctx context.Context, attributeID uint, value string) (*AttributeValueResponse, error) {
	if _, err := s.GetAttribute(ctx, attributeID); err != nil {
		return nil, err
	}

	av := model.AttributeValue{AttributeID: attributeID, Value: value}
	if err := s.db.WithContext(ctx).Create(&av).Error; err != nil {
		return nil, fmt.Errorf("failed to create attribute value: %w", err)
	}
	return &AttributeValueResponse{ID: av.ID, Value: av.Value}, nil
}

func (s *attributeService) RemoveValue(ctx context.Context, attributeID, valueID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND attribute_id = ?", valueID, attributeID).
		Delete(&model.AttributeValue{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete attribute value: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
