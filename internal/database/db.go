package database

import (
	"backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewConnection opens (or creates) the local SQLite database file and
// migrates the schema. SQLite ships with foreign keys off; the pragma turns
// on the CASCADE / SET NULL behavior the models rely on.
func NewConnection(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate auto-migrates every model. Kept separate so tests can run it
// against their own in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.Permission{},
		&model.RefreshToken{},
		&model.Client{},
		&model.Supplier{},
		&model.Brand{},
		&model.Color{},
		&model.Attribute{},
		&model.AttributeValue{},
		&model.Category{},
		&model.Tax{},
		&model.Product{},
		&model.Variation{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderLine{},
		&model.PurchaseOrderFee{},
		&model.Reception{},
		&model.ReceptionLine{},
		&model.AuditLog{},
	)
}
