package repository

import (
	"backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// TokenRepository persists refresh-token records for rotation and
// revocation. Records are only ever inserted or flagged revoked, never
// deleted, so the chain of a session stays auditable.
type TokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	Get(ctx context.Context, tokenID string, userID uint) (*model.RefreshToken, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new instance of TokenRepository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

// Get looks up the record by (token id, user id) regardless of its revoked
// flag; the auth service decides how to treat revoked or expired rows.
func (r *tokenRepository) Get(ctx context.Context, tokenID string, userID uint) (*model.RefreshToken, error) {
	var token model.RefreshToken
	err := GetDB(ctx, r.db).First(&token, "id = ? AND user_id = ?", tokenID, userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// Revoke flags the record revoked. Idempotent: revoking an already-revoked
// record changes nothing.
func (r *tokenRepository) Revoke(ctx context.Context, tokenID string) error {
	return GetDB(ctx, r.db).Model(&model.RefreshToken{}).
		Where("id = ?", tokenID).
		Update("revoked", true).Error
}

// RevokeAllForUser kills every live session of a user (password change,
// account disable).
func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID uint) error {
	return GetDB(ctx, r.db).Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
