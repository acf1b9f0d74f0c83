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

func newOrderFixture(t *testing.T) (PurchaseOrderService, *gorm.DB, model.Product) {
	t.Helper()

	db := newTestDB(t)
	product := model.Product{Name: "Widget", Kind: model.ProductKindSimple}
	require.NoError(t, db.Create(&product).Error)

	svc := NewPurchaseOrderService(repository.NewTransactionManager(db), db, nil)
	return svc, db, product
}

func TestCreateOrderWritesWholeDocument(t *testing.T) {
	svc, db, product := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Tax{Name: "VAT", Value: 10, Kind: model.TaxKindPercentage}).Error)

	order, err := svc.CreateOrder(ctx, nil, PurchaseOrderRequest{
		OrderDate: "2024-03-01",
		Lines: []PurchaseOrderLineRequest{
			{ProductID: &product.ID, Quantity: 3, PurchasePrice: 100},
			{ProductID: &product.ID, Quantity: 1, PurchasePrice: 50},
		},
		Fees: []PurchaseOrderFeeRequest{
			{Name: "Shipping", Amount: 20},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	require.Len(t, order.Fees, 1)
	assert.Equal(t, 110.0, order.Lines[0].PurchasePriceTTC)
}

func TestUpdateOrderReplacesChildren(t *testing.T) {
	svc, db, product := newOrderFixture(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, nil, PurchaseOrderRequest{
		OrderDate: "2024-03-01",
		Lines: []PurchaseOrderLineRequest{
			{ProductID: &product.ID, Quantity: 3, PurchasePrice: 100},
			{ProductID: &product.ID, Quantity: 1, PurchasePrice: 50},
		},
		Fees: []PurchaseOrderFeeRequest{
			{Name: "Shipping", Amount: 20},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, nil, order.ID, PurchaseOrderRequest{
		OrderDate: "2024-03-02",
		Lines: []PurchaseOrderLineRequest{
			{ProductID: &product.ID, Quantity: 9, PurchasePrice: 80},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-02", updated.OrderDate)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 9, updated.Lines[0].Quantity)
	assert.Empty(t, updated.Fees)

	// No stale child rows survive the rewrite.
	var lines, fees int64
	require.NoError(t, db.Model(&model.PurchaseOrderLine{}).Where("order_id = ?", order.ID).Count(&lines).Error)
	require.NoError(t, db.Model(&model.PurchaseOrderFee{}).Where("order_id = ?", order.ID).Count(&fees).Error)
	assert.Equal(t, int64(1), lines)
	assert.Equal(t, int64(0), fees)
}

func TestCreateOrderUnknownProductRollsBack(t *testing.T) {
	svc, db, _ := newOrderFixture(t)
	ctx := context.Background()

	missing := uint(999)
	_, err := svc.CreateOrder(ctx, nil, PurchaseOrderRequest{
		OrderDate: "2024-03-01",
		Lines: []PurchaseOrderLineRequest{
			{ProductID: &missing, Quantity: 1, PurchasePrice: 10},
		},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.PurchaseOrder{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteOrderRemovesChildren(t *testing.T) {
	svc, db, product := newOrderFixture(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, nil, PurchaseOrderRequest{
		OrderDate: "2024-03-01",
		Lines: []PurchaseOrderLineRequest{
			{ProductID: &product.ID, Quantity: 1, PurchasePrice: 10},
		},
		Fees: []PurchaseOrderFeeRequest{{Name: "Customs", Amount: 7}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, nil, order.ID))

	_, err = svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var lines, fees int64
	require.NoError(t, db.Model(&model.PurchaseOrderLine{}).Where("order_id = ?", order.ID).Count(&lines).Error)
	require.NoError(t, db.Model(&model.PurchaseOrderFee{}).Where("order_id = ?", order.ID).Count(&fees).Error)
	assert.Zero(t, lines)
	assert.Zero(t, fees)
}
