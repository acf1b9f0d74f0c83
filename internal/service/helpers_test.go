package service

import (
	"fmt"
	"strings"
	"testing"

	"backend/internal/database"
	"backend/internal/model"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database for one test and migrates the
// full schema. cache=shared keeps the database alive across the multiple
// connections gorm opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	return db
}

// seedUserWithRole creates a role carrying the given permissions plus a user
// assigned to it. Returns the user with the password still hashed.
func seedUserWithRole(t *testing.T, db *gorm.DB, username, password, roleName string, permNames ...string) *model.User {
	t.Helper()

	perms := make([]model.Permission, 0, len(permNames))
	for _, name := range permNames {
		group := strings.SplitN(name, ".", 2)[0]
		perms = append(perms, model.Permission{Name: name, Group: group})
	}

	role := model.Role{Name: roleName, Permissions: perms}
	require.NoError(t, db.Create(&role).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	email := username + "@example.com"
	user := model.User{
		Username: username,
		Email:    &email,
		Password: string(hash),
		RoleID:   &role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	return &user
}
