package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	seedUserWithRole(t, db, "alice", "secret123", "manager", "products.read", "products.create")

	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		repository.NewTransactionManager(db),
		config.JWTConfig{Secret: testSecret, AccessTTLMinutes: 15, RefreshTTLDays: 30},
	)
	return svc, db
}

func refreshClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestLoginReturnsTokensAndSanitizedUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "manager", res.User.Role)
	assert.ElementsMatch(t, []string{"products.read", "products.create"}, res.User.Permissions)

	// The access token must carry role and permissions for the guards.
	claims := refreshClaims(t, res.AccessToken)
	assert.Equal(t, "manager", claims["role"])
	assert.Len(t, claims["perms"], 2)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)

	// Each rotation mints a fresh token id.
	oldID := refreshClaims(t, res.RefreshToken)["token_id"]
	newID := refreshClaims(t, pair.RefreshToken)["token_id"]
	assert.NotEqual(t, oldID, newID)

	// The new token is usable.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshReplayFails(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	// Presenting the same token again must fail: it was revoked by rotation.
	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshRejectsGarbageAndForgedTokens(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      float64(1),
		"token_id": "11111111-1111-1111-1111-111111111111",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsUnknownTokenID(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	// Correctly signed, but no matching record: indistinguishable from a
	// revoked token on purpose.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      float64(1),
		"token_id": "22222222-2222-2222-2222-222222222222",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, signed)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshRejectsExpiredStoredToken(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	// Age the stored record past its expiry; the JWT itself is still valid.
	tokenID := refreshClaims(t, res.RefreshToken)["token_id"].(string)
	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("id = ?", tokenID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestLogoutRevokesAndAlwaysSucceeds(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Logout never errors, not even for garbage or double logout.
	assert.NoError(t, svc.Logout(ctx, res.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, "garbage"))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestLogoutRevokesExpiredToken(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	claims := refreshClaims(t, res.RefreshToken)
	tokenID := claims["token_id"].(string)

	// Re-sign the same identity with an exp in the past.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      claims["sub"],
		"token_id": tokenID,
		"iat":      time.Now().Add(-2 * time.Hour).Unix(),
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	expiredSigned, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, expiredSigned))

	var record model.RefreshToken
	require.NoError(t, db.First(&record, "id = ?", tokenID).Error)
	assert.True(t, record.Revoked)
}

func TestRotationKeepsRevokedRecords(t *testing.T) {
	svc, db := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	// Rotation revokes rather than deletes: both the spent and the fresh
	// record must exist.
	var total, revoked int64
	require.NoError(t, db.Model(&model.RefreshToken{}).Count(&total).Error)
	require.NoError(t, db.Model(&model.RefreshToken{}).Where("revoked = ?", true).Count(&revoked).Error)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), revoked)
}
