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

func newReceptionFixture(t *testing.T) (ReceptionService, *gorm.DB, model.Product) {
	t.Helper()

	db := newTestDB(t)
	product := model.Product{Name: "Widget", Kind: model.ProductKindSimple, StockQuantity: 0}
	require.NoError(t, db.Create(&product).Error)

	svc := NewReceptionService(repository.NewTransactionManager(db), db, nil)
	return svc, db, product
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product model.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.StockQuantity
}

func TestCreateReceptionBooksStock(t *testing.T) {
	svc, db, product := newReceptionFixture(t)
	ctx := context.Background()

	reception, err := svc.CreateReception(ctx, nil, ReceptionRequest{
		ReceptionDate: "2024-03-05",
		DelivererName: "DHL",
		Lines: []ReceptionLineRequest{
			{ProductID: &product.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	require.Len(t, reception.Lines, 1)
	assert.Equal(t, 5, stockOf(t, db, product.ID))
}

func TestUpdateReceptionRebooksStock(t *testing.T) {
	svc, db, product := newReceptionFixture(t)
	ctx := context.Background()

	reception, err := svc.CreateReception(ctx, nil, ReceptionRequest{
		ReceptionDate: "2024-03-05",
		Lines: []ReceptionLineRequest{
			{ProductID: &product.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	// The old quantity is unwound before the new one is applied.
	updated, err := svc.UpdateReception(ctx, nil, reception.ID, ReceptionRequest{
		ReceptionDate: "2024-03-06",
		Lines: []ReceptionLineRequest{
			{ProductID: &product.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-06", updated.ReceptionDate)
	assert.Equal(t, 3, stockOf(t, db, product.ID))
}

func TestDeleteReceptionUnwindsStock(t *testing.T) {
	svc, db, product := newReceptionFixture(t)
	ctx := context.Background()

	reception, err := svc.CreateReception(ctx, nil, ReceptionRequest{
		ReceptionDate: "2024-03-05",
		Lines: []ReceptionLineRequest{
			{ProductID: &product.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReception(ctx, nil, reception.ID))

	assert.Equal(t, 0, stockOf(t, db, product.ID))

	var lines int64
	require.NoError(t, db.Model(&model.ReceptionLine{}).Where("reception_id = ?", reception.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestCreateReceptionUnknownTargetRollsBack(t *testing.T) {
	svc, db, product := newReceptionFixture(t)
	ctx := context.Background()

	missing := uint(999)
	_, err := svc.CreateReception(ctx, nil, ReceptionRequest{
		ReceptionDate: "2024-03-05",
		Lines: []ReceptionLineRequest{
			{ProductID: &product.ID, Quantity: 5},
			{VariationID: &missing, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Neither the reception nor the first line's stock move may persist.
	var count int64
	require.NoError(t, db.Model(&model.Reception{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 0, stockOf(t, db, product.ID))
}
