package repository

import (
	"backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// ProductRepository defines the data access surface for products and their
// owned variations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, page, limit int) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	ReplaceCategories(ctx context.Context, product *model.Product, categories []model.Category) error
	ReplaceBrands(ctx context.Context, product *model.Product, brands []model.Brand) error
	ReplaceTaxes(ctx context.Context, product *model.Product, taxes []model.Tax) error
	DeleteVariations(ctx context.Context, productID uint) error
	CreateVariation(ctx context.Context, variation *model.Variation) error
	GetVariation(ctx context.Context, id uint) (*model.Variation, error)
	VariationsByProduct(ctx context.Context, productID uint) ([]model.Variation, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a new instance of ProductRepository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	// Omit associations: the service writes relation sets explicitly so the
	// same code path serves create and update.
	return GetDB(ctx, r.db).Omit("Categories", "Brands", "Taxes", "Variations").Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := GetDB(ctx, r.db).
		Preload("Categories").
		Preload("Brands").
		Preload("Taxes").
		Preload("Variations").
		Preload("Variations.Taxes").
		Preload("Variations.Attributes").
		Preload("Variations.Colors").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.
		Preload("Categories").
		Preload("Brands").
		Preload("Taxes").
		Preload("Variations").
		Offset(offset).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Omit("Categories", "Brands", "Taxes", "Variations").Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

// ReplaceCategories swaps the product's category set wholesale. Association
// Replace deletes the join rows then reinserts, matching the document update
// discipline.
func (r *productRepository) ReplaceCategories(ctx context.Context, product *model.Product, categories []model.Category) error {
	return GetDB(ctx, r.db).Model(product).Association("Categories").Replace(categories)
}

func (r *productRepository) ReplaceBrands(ctx context.Context, product *model.Product, brands []model.Brand) error {
	return GetDB(ctx, r.db).Model(product).Association("Brands").Replace(brands)
}

func (r *productRepository) ReplaceTaxes(ctx context.Context, product *model.Product, taxes []model.Tax) error {
	return GetDB(ctx, r.db).Model(product).Association("Taxes").Replace(taxes)
}

// DeleteVariations removes every variation of a product; their tax,
// attribute and color join rows go with them via Select(clause.Associations)
// semantics at the FK level (ON DELETE CASCADE).
func (r *productRepository) DeleteVariations(ctx context.Context, productID uint) error {
	return GetDB(ctx, r.db).Where("product_id = ?", productID).Delete(&model.Variation{}).Error
}

func (r *productRepository) CreateVariation(ctx context.Context, variation *model.Variation) error {
	return GetDB(ctx, r.db).Create(variation).Error
}

func (r *productRepository) GetVariation(ctx context.Context, id uint) (*model.Variation, error) {
	var variation model.Variation
	err := GetDB(ctx, r.db).
		Preload("Taxes").
		Preload("Attributes").
		Preload("Colors").
		First(&variation, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &variation, nil
}

func (r *productRepository) VariationsByProduct(ctx context.Context, productID uint) ([]model.Variation, error) {
	var variations []model.Variation
	err := GetDB(ctx, r.db).
		Preload("Taxes").
		Preload("Attributes").
		Preload("Colors").
		Where("product_id = ?", productID).
		Find(&variations).Error
	if err != nil {
		return nil, err
	}
	return variations, nil
}
