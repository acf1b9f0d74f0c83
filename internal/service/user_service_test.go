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

func newUserFixture(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewUserService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		db,
	)
	return svc, db
}

func TestCreateUserHashesPasswordAndAudits(t *testing.T) {
	svc, db := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, nil, CreateUserRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)

	var stored model.User
	require.NoError(t, db.First(&stored, "username = ?", "bob").Error)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NotEmpty(t, stored.Password)

	var audits int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("action = ?", model.ActionCreateUser).Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, nil, CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, nil, CreateUserRequest{Username: "bob", Email: "other@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.CreateUser(ctx, nil, CreateUserRequest{Username: "robert", Email: "bob@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateUsersWithoutEmailDoNotCollide(t *testing.T) {
	svc, db := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, nil, CreateUserRequest{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, nil, CreateUserRequest{Username: "robert", Password: "hunter22"})
	require.NoError(t, err)

	// Absent emails land as NULL, not "", so the unique index never trips.
	var stored model.User
	require.NoError(t, db.First(&stored, "username = ?", "bob").Error)
	assert.Nil(t, stored.Email)
}

func TestUpdateUserPasswordChangeRevokesSessions(t *testing.T) {
	svc, db := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, nil, CreateUserRequest{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)

	// Simulate live sessions.
	require.NoError(t, db.Create(&model.RefreshToken{ID: "tok-1", UserID: user.ID, Token: "x"}).Error)
	require.NoError(t, db.Create(&model.RefreshToken{ID: "tok-2", UserID: user.ID, Token: "y"}).Error)

	_, err = svc.UpdateUser(ctx, nil, user.ID, UpdateUserRequest{Username: "bob", Password: "newpassword"})
	require.NoError(t, err)

	var active int64
	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Count(&active).Error)
	assert.Zero(t, active)

	// Empty password keeps the hash untouched.
	_, err = svc.UpdateUser(ctx, nil, user.ID, UpdateUserRequest{Username: "bob"})
	require.NoError(t, err)
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	svc, db := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, nil, CreateUserRequest{Username: "bob", Password: "hunter22"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.RefreshToken{ID: "tok-1", UserID: user.ID, Token: "x"}).Error)

	require.NoError(t, svc.DeleteUser(ctx, nil, user.ID))

	_, err = svc.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var active int64
	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Count(&active).Error)
	assert.Zero(t, active)
}
