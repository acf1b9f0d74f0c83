package model

import "time"

// Brand is a product make (marque).
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Color carries a display name plus its hex value, e.g. "#FFFFFF".
type Color struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Value     string    `gorm:"size:20;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attribute is a variation axis such as "Size"; its values ("M", "L", "XL")
// live in AttributeValue rows and go away with the attribute.
type Attribute struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Values    []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE" json:"values"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// AttributeValue is one selectable value of an attribute.
type AttributeValue struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AttributeID uint   `gorm:"not null;index" json:"attribute_id"`
	Value       string `gorm:"size:255;not null" json:"value"`
}

// Category is a node of the category forest: parent_id is nullable and the
// FK clears it when the parent goes away, so children become roots rather
// than orphans.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Parent    *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaxKind enum constants
const (
	TaxKindPercentage = "percentage"
	TaxKindAddition   = "addition"
)

// Tax is a purchase tax row. Percentage taxes compound on the price; addition
// taxes are flat amounts added after all percentage taxes.
type Tax struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Value     float64   `gorm:"not null" json:"value"`
	Kind      string    `gorm:"size:20;not null" json:"kind"` // percentage, addition
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
