package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/pkg/pagination"

	"gorm.io/gorm"
)

type ClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone1    string `json:"phone1"`
	Phone2    string `json:"phone2"`
	Address   string `json:"address"`
}

type ClientService interface {
	CreateClient(ctx context.Context, req ClientRequest) (*model.Client, error)
	GetClient(ctx context.Context, id uint) (*model.Client, error)
	ListClients(ctx context.Context, p pagination.Params, search string) ([]model.Client, int64, error)
	UpdateClient(ctx context.Context, id uint, req ClientRequest) (*model.Client, error)
	DeleteClient(ctx context.Context, id uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, req ClientRequest) (*model.Client, error) {
	client := model.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone1:    req.Phone1,
		Phone2:    req.Phone2,
		Address:   req.Address,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

func (s *clientService) GetClient(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	if err := s.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	return &client, nil
}

func (s *clientService) ListClients(ctx context.Context, p pagination.Params, search string) ([]model.Client, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Client{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone1 LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clients []model.Client
	if err := query.Order("last_name ASC, first_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}
	return clients, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id uint, req ClientRequest) (*model.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.FirstName = req.FirstName
	client.LastName = req.LastName
	client.Email = req.Email
	client.Phone1 = req.Phone1
	client.Phone2 = req.Phone2
	client.Address = req.Address

	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Client{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
