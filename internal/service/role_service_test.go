package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaults(ctx))
	require.NoError(t, svc.SeedDefaults(ctx))

	var roles int64
	require.NoError(t, db.Model(&model.Role{}).Count(&roles).Error)
	assert.Equal(t, int64(4), roles)

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("username = ?", "admin").Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestSeededAdminCanLogIn(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, NewRoleService(db).SeedDefaults(context.Background()))

	authSvc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		repository.NewTransactionManager(db),
		config.JWTConfig{Secret: testSecret, AccessTTLMinutes: 15, RefreshTTLDays: 30},
	)

	res, err := authSvc.Login(context.Background(), LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.User.Role)
	assert.NotEmpty(t, res.User.Permissions)
}

func TestSystemRolesCannotBeDeleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaults(ctx))

	var admin model.Role
	require.NoError(t, db.First(&admin, "name = ?", "admin").Error)

	assert.ErrorIs(t, svc.DeleteRole(ctx, admin.ID), ErrForbidden)

	// Custom roles delete normally.
	custom, err := svc.CreateRole(ctx, CreateRoleRequest{Name: "temp"})
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteRole(ctx, custom.ID))
}
