package model

import (
	"time"
)

const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionCreateTax     = "CREATE_TAX"
	ActionUpdateTax     = "UPDATE_TAX"
	ActionDeleteTax     = "DELETE_TAX"
	ActionCreateOrder   = "CREATE_PURCHASE_ORDER"
	ActionUpdateOrder   = "UPDATE_PURCHASE_ORDER"
	ActionDeleteOrder   = "DELETE_PURCHASE_ORDER"
	ActionCreateRecep   = "CREATE_RECEPTION"
	ActionUpdateRecep   = "UPDATE_RECEPTION"
	ActionDeleteRecep   = "DELETE_RECEPTION"
	ActionCreateUser    = "CREATE_USER"
	ActionUpdateUser    = "UPDATE_USER"
	ActionDeleteUser    = "DELETE_USER"
)

// AuditLog tracks who did what and when for critical mutations.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"` // Nullable for seed/startup writes
	User       *User     `gorm:"foreignKey:UserID" json:"user"`
	Action     string    `gorm:"size:50;not null;index" json:"action"`
	EntityID   string    `gorm:"size:50;index" json:"entity_id"`
	EntityName string    `gorm:"size:255" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:text" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
