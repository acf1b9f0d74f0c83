package model

import (
	"time"

	"gorm.io/gorm"
)

// Client is a customer contact card.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"size:255" json:"first_name"`
	LastName  string         `gorm:"size:255" json:"last_name"`
	Email     string         `gorm:"size:255" json:"email"`
	Phone1    string         `gorm:"size:50" json:"phone1"`
	Phone2    string         `gorm:"size:50" json:"phone2"`
	Address   string         `gorm:"type:text" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Supplier is a vendor contact card; purchase orders reference it.
type Supplier struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"size:255" json:"first_name"`
	LastName  string         `gorm:"size:255" json:"last_name"`
	Company   string         `gorm:"size:255" json:"company"`
	Email     string         `gorm:"size:255" json:"email"`
	Phone1    string         `gorm:"size:50" json:"phone1"`
	Phone2    string         `gorm:"size:50" json:"phone2"`
	Address   string         `gorm:"type:text" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
