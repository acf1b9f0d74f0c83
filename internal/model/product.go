package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductKind enum constants
const (
	ProductKindSimple   = "simple"
	ProductKindVariable = "variable"
)

// Product is a sellable item. PurchasePriceTTC is derived: it is recomputed
// from PurchasePrice and the full tax table on every write and must never be
// treated as independently authoritative.
type Product struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Barcode          string         `gorm:"size:100;uniqueIndex" json:"barcode"`
	Kind             string         `gorm:"size:20;not null;default:'simple'" json:"kind"` // simple, variable
	PurchasePrice    float64        `gorm:"not null;default:0" json:"purchase_price"`
	PurchasePriceTTC float64        `gorm:"not null;default:0" json:"purchase_price_ttc"`
	SalePrice        float64        `gorm:"not null;default:0" json:"sale_price"`
	StockQuantity    int            `gorm:"default:0" json:"stock_quantity"`
	Image            string         `gorm:"type:text" json:"image"`
	Active           bool           `gorm:"default:true" json:"active"`
	Categories       []Category     `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories"`
	Brands           []Brand        `gorm:"many2many:product_brands;constraint:OnDelete:CASCADE" json:"brands"`
	Taxes            []Tax          `gorm:"many2many:product_taxes;constraint:OnDelete:CASCADE" json:"taxes"`
	Variations       []Variation    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// Variation is one concrete declination of a variable product, with its own
// prices, stock and barcode. Its PurchasePriceTTC follows the same derivation
// rule as the product's.
type Variation struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	ProductID        uint             `gorm:"not null;index" json:"product_id"`
	Name             string           `gorm:"size:255" json:"name"`
	PurchasePrice    float64          `gorm:"not null;default:0" json:"purchase_price"`
	PurchasePriceTTC float64          `gorm:"not null;default:0" json:"purchase_price_ttc"`
	SalePrice        float64          `gorm:"not null;default:0" json:"sale_price"`
	Barcode          string           `gorm:"size:100" json:"barcode"`
	StockQuantity    int              `gorm:"default:0" json:"stock_quantity"`
	Image            string           `gorm:"type:text" json:"image"`
	Active           bool             `gorm:"default:true" json:"active"`
	Taxes            []Tax            `gorm:"many2many:variation_taxes;constraint:OnDelete:CASCADE" json:"taxes"`
	Attributes       []AttributeValue `gorm:"many2many:variation_attribute_values;constraint:OnDelete:CASCADE" json:"attributes"`
	Colors           []Color          `gorm:"many2many:variation_colors;constraint:OnDelete:CASCADE" json:"colors"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
