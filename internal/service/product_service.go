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

type VariationRequest struct {
	Name              string  `json:"name"`
	PurchasePrice     float64 `json:"purchase_price" binding:"gte=0"`
	SalePrice         float64 `json:"sale_price" binding:"gte=0"`
	Barcode           string  `json:"barcode"`
	StockQuantity     int     `json:"stock_quantity"`
	Image             string  `json:"image"`
	Active            *bool   `json:"active"`
	TaxIDs            []uint  `json:"tax_ids"`
	AttributeValueIDs []uint  `json:"attribute_value_ids"`
	ColorIDs          []uint  `json:"color_ids"`
}

type ProductRequest struct {
	Name          string             `json:"name" binding:"required"`
	Barcode       string             `json:"barcode"`
	Kind          string             `json:"kind" binding:"required,oneof=simple variable"`
	PurchasePrice float64            `json:"purchase_price" binding:"gte=0"`
	SalePrice     float64            `json:"sale_price" binding:"gte=0"`
	StockQuantity int                `json:"stock_quantity"`
	Image         string             `json:"image"`
	Active        *bool              `json:"active"`
	CategoryIDs   []uint             `json:"category_ids"`
	BrandIDs      []uint             `json:"brand_ids"`
	TaxIDs        []uint             `json:"tax_ids"`
	Variations    []VariationRequest `json:"variations"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, actorID *uint, req ProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, p pagination.Params) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, actorID *uint, id uint, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actorID *uint, id uint) error
	ListVariations(ctx context.Context, productID uint) ([]model.Variation, error)
	GetVariation(ctx context.Context, productID, variationID uint) (*model.Variation, error)
}

type productService struct {
	repo      repository.ProductRepository
	txManager repository.TransactionManager
	db        *gorm.DB
	events    EventPublisher
}

func NewProductService(repo repository.ProductRepository, txManager repository.TransactionManager, db *gorm.DB, events EventPublisher) ProductService {
	return &productService{repo: repo, txManager: txManager, db: db, events: events}
}

// --- Implementation ---

// allTaxes loads the full tax table. Price-incl-tax derivation applies every
// configured tax, not just the ones attached to the product, so the sticker
// price matches what the register charges.
func (s *productService) allTaxes(ctx context.Context) ([]model.Tax, error) {
	var taxes []model.Tax
	if err := repository.GetDB(ctx, s.db).Order("id ASC").Find(&taxes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch taxes: %w", err)
	}
	return taxes, nil
}

func (s *productService) taxesByID(ctx context.Context, ids []uint) ([]model.Tax, error) {
	if len(ids) == 0 {
		return []model.Tax{}, nil
	}
	var taxes []model.Tax
	if err := repository.GetDB(ctx, s.db).Where("id IN ?", ids).Find(&taxes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch taxes: %w", err)
	}
	if len(taxes) != len(ids) {
		return nil, fmt.Errorf("%w: unknown tax id", ErrNotFound)
	}
	return taxes, nil
}

func (s *productService) categoriesByID(ctx context.Context, ids []uint) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}
	var cats []model.Category
	if err := repository.GetDB(ctx, s.db).Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if len(cats) != len(ids) {
		return nil, fmt.Errorf("%w: unknown category id", ErrNotFound)
	}
	return cats, nil
}

func (s *productService) brandsByID(ctx context.Context, ids []uint) ([]model.Brand, error) {
	if len(ids) == 0 {
		return []model.Brand{}, nil
	}
	var brands []model.Brand
	if err := repository.GetDB(ctx, s.db).Where("id IN ?", ids).Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}
	if len(brands) != len(ids) {
		return nil, fmt.Errorf("%w: unknown brand id", ErrNotFound)
	}
	return brands, nil
}

func (s *productService) buildVariation(ctx context.Context, productID uint, req VariationRequest, taxTable []model.Tax) (*model.Variation, error) {
	variation := model.Variation{
		ProductID:        productID,
		Name:             req.Name,
		PurchasePrice:    req.PurchasePrice,
		PurchasePriceTTC: PriceInclTax(req.PurchasePrice, taxTable),
		SalePrice:        req.SalePrice,
		Barcode:          req.Barcode,
		StockQuantity:    req.StockQuantity,
		Image:            req.Image,
		Active:           true,
	}
	if req.Active != nil {
		variation.Active = *req.Active
	}

	taxes, err := s.taxesByID(ctx, req.TaxIDs)
	if err != nil {
		return nil, err
	}
	variation.Taxes = taxes

	if len(req.AttributeValueIDs) > 0 {
		var values []model.AttributeValue
		if err := repository.GetDB(ctx, s.db).Where("id IN ?", req.AttributeValueIDs).Find(&values).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch attribute values: %w", err)
		}
		if len(values) != len(req.AttributeValueIDs) {
			return nil, fmt.Errorf("%w: unknown attribute value id", ErrNotFound)
		}
		variation.Attributes = values
	}

	if len(req.ColorIDs) > 0 {
		var colors []model.Color
		if err := repository.GetDB(ctx, s.db).Where("id IN ?", req.ColorIDs).Find(&colors).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch colors: %w", err)
		}
		if len(colors) != len(req.ColorIDs) {
			return nil, fmt.Errorf("%w: unknown color id", ErrNotFound)
		}
		variation.Colors = colors
	}

	return &variation, nil
}

func (s *productService) CreateProduct(ctx context.Context, actorID *uint, req ProductRequest) (*model.Product, error) {
	var created *model.Product

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		taxTable, err := s.allTaxes(txCtx)
		if err != nil {
			return err
		}

		product := model.Product{
			Name:             req.Name,
			Barcode:          req.Barcode,
			Kind:             req.Kind,
			PurchasePrice:    req.PurchasePrice,
			PurchasePriceTTC: PriceInclTax(req.PurchasePrice, taxTable),
			SalePrice:        req.SalePrice,
			StockQuantity:    req.StockQuantity,
			Image:            req.Image,
			Active:           true,
		}
		if req.Active != nil {
			product.Active = *req.Active
		}

		if err := s.repo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if err := s.applyRelations(txCtx, &product, req); err != nil {
			return err
		}

		for _, vr := range req.Variations {
			variation, err := s.buildVariation(txCtx, product.ID, vr, taxTable)
			if err != nil {
				return err
			}
			if err := s.repo.CreateVariation(txCtx, variation); err != nil {
				return fmt.Errorf("failed to create variation: %w", err)
			}
		}

		created, err = s.repo.GetByID(txCtx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionCreateProduct, strconv.Itoa(int(created.ID)), created.Name, req)
	if s.events != nil {
		s.events.Publish("product.created", created)
	}
	return created, nil
}

func (s *productService) applyRelations(ctx context.Context, product *model.Product, req ProductRequest) error {
	cats, err := s.categoriesByID(ctx, req.CategoryIDs)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceCategories(ctx, product, cats); err != nil {
		return fmt.Errorf("failed to set categories: %w", err)
	}

	brands, err := s.brandsByID(ctx, req.BrandIDs)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceBrands(ctx, product, brands); err != nil {
		return fmt.Errorf("failed to set brands: %w", err)
	}

	taxes, err := s.taxesByID(ctx, req.TaxIDs)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceTaxes(ctx, product, taxes); err != nil {
		return fmt.Errorf("failed to set taxes: %w", err)
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, p pagination.Params) ([]model.Product, int64, error) {
	products, total, err := s.repo.List(ctx, p.Page, p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *productService) ListVariations(ctx context.Context, productID uint) ([]model.Variation, error) {
	var count int64
	if err := repository.GetDB(ctx, s.db).Model(&model.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	variations, err := s.repo.VariationsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch variations: %w", err)
	}
	return variations, nil
}

func (s *productService) GetVariation(ctx context.Context, productID, variationID uint) (*model.Variation, error) {
	variation, err := s.repo.GetVariation(ctx, variationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch variation: %w", err)
	}
	if variation.ProductID != productID {
		return nil, ErrNotFound
	}
	return variation, nil
}

// UpdateProduct rewrites the whole product document: scalar fields, relation
// sets and variations, inside one transaction. Variations are dropped and
// recreated rather than diffed.
func (s *productService) UpdateProduct(ctx context.Context, actorID *uint, id uint, req ProductRequest) (*model.Product, error) {
	var updated *model.Product

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch product: %w", err)
		}

		taxTable, err := s.allTaxes(txCtx)
		if err != nil {
			return err
		}

		product.Name = req.Name
		product.Barcode = req.Barcode
		product.Kind = req.Kind
		product.PurchasePrice = req.PurchasePrice
		product.PurchasePriceTTC = PriceInclTax(req.PurchasePrice, taxTable)
		product.SalePrice = req.SalePrice
		product.StockQuantity = req.StockQuantity
		product.Image = req.Image
		if req.Active != nil {
			product.Active = *req.Active
		}

		if err := s.repo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if err := s.applyRelations(txCtx, product, req); err != nil {
			return err
		}

		if err := s.repo.DeleteVariations(txCtx, id); err != nil {
			return fmt.Errorf("failed to clear variations: %w", err)
		}
		for _, vr := range req.Variations {
			variation, err := s.buildVariation(txCtx, id, vr, taxTable)
			if err != nil {
				return err
			}
			if err := s.repo.CreateVariation(txCtx, variation); err != nil {
				return fmt.Errorf("failed to create variation: %w", err)
			}
		}

		updated, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionUpdateProduct, strconv.Itoa(int(id)), updated.Name, req)
	if s.events != nil {
		s.events.Publish("product.updated", updated)
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actorID *uint, id uint) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteVariations(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete variations: %w", err)
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionDeleteProduct, strconv.Itoa(int(id)), product.Name, nil)
	if s.events != nil {
		s.events.Publish("product.deleted", map[string]uint{"id": id})
	}
	return nil
}
