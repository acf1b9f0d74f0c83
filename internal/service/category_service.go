package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

// --- DTOs ---

type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type CategoryResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

// CategoryNode is a category with its children resolved, for tree display.
type CategoryNode struct {
	CategoryResponse
	Children []*CategoryNode `json:"children"`
}

// --- Interface ---

type CategoryService interface {
	CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	GetCategory(ctx context.Context, id uint) (*CategoryResponse, error)
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	Tree(ctx context.Context) ([]*CategoryNode, error)
	UpdateCategory(ctx context.Context, id uint, req CategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) CategoryService {
	return &categoryService{db: db}
}

// --- Implementation ---

func toCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
}

func (s *categoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.GetCategory(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("%w: parent category", ErrNotFound)
		}
	}

	cat := model.Category{Name: req.Name, ParentID: req.ParentID}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	res := toCategoryResponse(cat)
	return &res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*CategoryResponse, error) {
	var cat model.Category
	if err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	res := toCategoryResponse(cat)
	return &res, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	var cats []model.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	res := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		res = append(res, toCategoryResponse(c))
	}
	return res, nil
}

// Tree assembles the flat rows into their parent/child forest. Rows whose
// parent_id is null (or dangles) become roots; every row appears exactly
// once, so the combined descendant count equals the row count.
func (s *categoryService) Tree(ctx context.Context) ([]*CategoryNode, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint]*CategoryNode, len(cats))
	for _, c := range cats {
		nodes[c.ID] = &CategoryNode{CategoryResponse: c, Children: []*CategoryNode{}}
	}

	roots := make([]*CategoryNode, 0)
	for _, c := range cats {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			// Dangling parent reference: treat as a root rather than drop it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, req CategoryRequest) (*CategoryResponse, error) {
	var cat model.Category
	if err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, fmt.Errorf("%w: a category cannot be its own parent", ErrInvalidInput)
		}
		if _, err := s.GetCategory(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("%w: parent category", ErrNotFound)
		}
	}

	cat.Name = req.Name
	cat.ParentID = req.ParentID

	if err := s.db.WithContext(ctx).Save(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	res := toCategoryResponse(cat)
	return &res, nil
}

// DeleteCategory removes the row; the self-referential FK sets children's
// parent_id to NULL, so they surface as roots instead of orphans.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
