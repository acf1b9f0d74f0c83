package model

import (
	"time"
)

// ReductionKind enum constants
const (
	ReductionKindPercentage   = "percentage"
	ReductionKindSubstraction = "substraction"
)

// PurchaseOrder is a "bon de commande": a header plus owned line items and
// fee rows. Children are written as a whole set: updates delete and reinsert
// them inside one transaction.
type PurchaseOrder struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	SupplierID     *uint               `gorm:"index" json:"supplier_id"`
	Supplier       *Supplier           `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	OrderDate      string              `gorm:"size:30;not null" json:"order_date"`
	ReductionKind  *string             `gorm:"size:20" json:"reduction_kind"` // percentage, substraction
	ReductionValue float64             `gorm:"default:0" json:"reduction_value"`
	Lines          []PurchaseOrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	Fees           []PurchaseOrderFee  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"fees"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// PurchaseOrderLine references either a product or one of its variations.
type PurchaseOrderLine struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	OrderID          uint    `gorm:"not null;index" json:"order_id"`
	ProductID        *uint   `gorm:"index" json:"product_id"`
	VariationID      *uint   `gorm:"index" json:"variation_id"`
	Quantity         int     `gorm:"not null" json:"quantity"`
	PurchasePrice    float64 `gorm:"not null" json:"purchase_price"`
	PurchasePriceTTC float64 `gorm:"not null" json:"purchase_price_ttc"`
}

// PurchaseOrderFee is an extra charge attached to an order (shipping, customs...).
type PurchaseOrderFee struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	OrderID uint    `gorm:"not null;index" json:"order_id"`
	Name    string  `gorm:"size:255;not null" json:"name"`
	Amount  float64 `gorm:"not null" json:"amount"`
}

// Reception is a "bon de réception": goods received against an optional
// purchase order. Same whole-set write discipline as PurchaseOrder.
type Reception struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	PurchaseOrderID *uint           `gorm:"index" json:"purchase_order_id"`
	PurchaseOrder   *PurchaseOrder  `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:SET NULL" json:"purchase_order,omitempty"`
	DelivererName   string          `gorm:"size:255" json:"deliverer_name"`
	ReceptionDate   string          `gorm:"size:30;not null" json:"reception_date"`
	Lines           []ReceptionLine `gorm:"foreignKey:ReceptionID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ReceptionLine records a received quantity for a product or variation.
type ReceptionLine struct {
	ID          uint  `gorm:"primaryKey" json:"id"`
	ReceptionID uint  `gorm:"not null;index" json:"reception_id"`
	ProductID   *uint `gorm:"index" json:"product_id"`
	VariationID *uint `gorm:"index" json:"variation_id"`
	Quantity    int   `gorm:"not null" json:"quantity"`
}
