package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductFixture(t *testing.T) (ProductService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewTransactionManager(db),
		db,
		nil,
	)
	return svc, db
}

func seedTaxes(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Tax{Name: "VAT", Value: 10, Kind: model.TaxKindPercentage}).Error)
	require.NoError(t, db.Create(&model.Tax{Name: "Eco", Value: 5, Kind: model.TaxKindAddition}).Error)
}

func TestCreateProductDerivesPriceInclTax(t *testing.T) {
	svc, db := newProductFixture(t)
	seedTaxes(t, db)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name:          "Widget",
		Kind:          model.ProductKindSimple,
		PurchasePrice: 100,
		SalePrice:     150,
	})
	require.NoError(t, err)

	assert.Equal(t, 115.0, product.PurchasePriceTTC)
}

func TestUpdateProductRecomputesPriceInclTax(t *testing.T) {
	svc, db := newProductFixture(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name:          "Widget",
		Kind:          model.ProductKindSimple,
		PurchasePrice: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, product.PurchasePriceTTC)

	// A tax added later must flow into the derived price on the next write.
	seedTaxes(t, db)

	updated, err := svc.UpdateProduct(ctx, nil, product.ID, ProductRequest{
		Name:          "Widget",
		Kind:          model.ProductKindSimple,
		PurchasePrice: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 115.0, updated.PurchasePriceTTC)
}

func TestUpdateProductReplacesRelationSets(t *testing.T) {
	svc, db := newProductFixture(t)
	ctx := context.Background()

	catA := model.Category{Name: "A"}
	catB := model.Category{Name: "B"}
	brand := model.Brand{Name: "Acme"}
	require.NoError(t, db.Create(&catA).Error)
	require.NoError(t, db.Create(&catB).Error)
	require.NoError(t, db.Create(&brand).Error)

	product, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name:        "Widget",
		Kind:        model.ProductKindSimple,
		CategoryIDs: []uint{catA.ID},
		BrandIDs:    []uint{brand.ID},
	})
	require.NoError(t, err)
	require.Len(t, product.Categories, 1)
	assert.Equal(t, "A", product.Categories[0].Name)

	updated, err := svc.UpdateProduct(ctx, nil, product.ID, ProductRequest{
		Name:        "Widget",
		Kind:        model.ProductKindSimple,
		CategoryIDs: []uint{catB.ID},
	})
	require.NoError(t, err)

	// The set is replaced wholesale: only B remains, the brand is cleared.
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "B", updated.Categories[0].Name)
	assert.Empty(t, updated.Brands)
}

func TestUpdateProductRewritesVariations(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name: "Shirt",
		Kind: model.ProductKindVariable,
		Variations: []VariationRequest{
			{Name: "S", PurchasePrice: 10},
			{Name: "M", PurchasePrice: 11},
		},
	})
	require.NoError(t, err)
	require.Len(t, product.Variations, 2)

	updated, err := svc.UpdateProduct(ctx, nil, product.ID, ProductRequest{
		Name: "Shirt",
		Kind: model.ProductKindVariable,
		Variations: []VariationRequest{
			{Name: "L", PurchasePrice: 12},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Variations, 1)
	assert.Equal(t, "L", updated.Variations[0].Name)
}

func TestVariationLookups(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name: "Shirt",
		Kind: model.ProductKindVariable,
		Variations: []VariationRequest{
			{Name: "S", PurchasePrice: 10},
			{Name: "M", PurchasePrice: 11},
		},
	})
	require.NoError(t, err)

	other, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name: "Mug",
		Kind: model.ProductKindSimple,
	})
	require.NoError(t, err)

	variations, err := svc.ListVariations(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, variations, 2)

	got, err := svc.GetVariation(ctx, product.ID, variations[0].ID)
	require.NoError(t, err)
	assert.Equal(t, variations[0].Name, got.Name)

	// A variation is only reachable under its own product.
	_, err = svc.GetVariation(ctx, other.ID, variations[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListVariations(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProductUnknownTaxRollsBack(t *testing.T) {
	svc, db := newProductFixture(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name:   "Ghost",
		Kind:   model.ProductKindSimple,
		TaxIDs: []uint{999},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// The failed create must leave nothing behind.
	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteProductRemovesVariations(t *testing.T) {
	svc, db := newProductFixture(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, nil, ProductRequest{
		Name: "Shirt",
		Kind: model.ProductKindVariable,
		Variations: []VariationRequest{
			{Name: "S"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, nil, product.ID))

	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Variation{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
