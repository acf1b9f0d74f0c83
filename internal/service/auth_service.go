package service

import (
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/config"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// DTOs

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	TokenPair
	User AuthUser `json:"user"`
}

// AuthUser is the sanitized user object returned on login. It never carries
// the password hash.
type AuthUser struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AuthService owns the session lifecycle: login, refresh-token rotation and
// logout. Each refresh token is single use; presenting it revokes it and
// issues a new pair, so a replayed token always fails.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	txManager repository.TransactionManager
	cfg       config.JWTConfig
}

// NewAuthService returns a new instance of AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	txManager repository.TransactionManager,
	cfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		txManager: txManager,
		cfg:       cfg,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and wrong password.
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn().Str("username", req.Username).Msg("login failed: password mismatch")
		return nil, ErrInvalidCredentials
	}

	role, err := s.userRepo.RoleNameForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}
	perms, err := s.userRepo.PermissionsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	pair, err := s.issueTokens(ctx, user.ID, role, perms)
	if err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", user.ID).Str("role", role).Msg("login succeeded")

	return &LoginResponse{
		TokenPair: *pair,
		User: AuthUser{
			ID:          user.ID,
			Username:    user.Username,
			Role:        role,
			Permissions: perms,
		},
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, tokenID, err := s.parseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		record, err := s.tokenRepo.Get(txCtx, tokenID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTokenRevoked
			}
			return fmt.Errorf("failed to load refresh token: %w", err)
		}
		if record.Revoked {
			return ErrTokenRevoked
		}
		if time.Now().After(record.ExpiresAt) {
			return ErrTokenExpired
		}

		// Rotation: the presented token can never be used again.
		if err := s.tokenRepo.Revoke(txCtx, tokenID); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		// Re-derive role and permissions so grants changed since login take
		// effect on the next access token.
		role, err := s.userRepo.RoleNameForUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to resolve role: %w", err)
		}
		perms, err := s.userRepo.PermissionsForUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to resolve permissions: %w", err)
		}

		pair, err = s.issueTokens(txCtx, userID, role, perms)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout is best effort: a bad or expired token still reports success, the
// caller is logged out either way.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	// Expired tokens still get their record revoked, so the signature is
	// checked but claim validation is skipped.
	userID, tokenID, err := s.parseRefresh(refreshToken, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.tokenRepo.Revoke(ctx, tokenID); err != nil {
		log.Warn().Uint("user_id", userID).Err(err).Msg("logout: revoke failed")
	}
	return nil
}

// issueTokens mints an access/refresh pair and persists the refresh record.
func (s *authService) issueTokens(ctx context.Context, userID uint, role string, perms []string) (*TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"role":  role,
		"perms": perms,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(s.cfg.AccessTTLMinutes) * time.Minute).Unix(),
	})
	accessSigned, err := access.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	tokenID := uuid.NewString()
	expiresAt := now.Add(time.Duration(s.cfg.RefreshTTLDays) * 24 * time.Hour)

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID,
		"token_id": tokenID,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})
	refreshSigned, err := refresh.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := &model.RefreshToken{
		ID:        tokenID,
		UserID:    userID,
		Token:     refreshSigned,
		ExpiresAt: expiresAt,
		Revoked:   false,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessSigned, RefreshToken: refreshSigned}, nil
}

// parseRefresh verifies the signature and extracts (userID, tokenID).
func (s *authService) parseRefresh(refreshToken string, opts ...jwt.ParserOption) (uint, string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", ErrTokenExpired
		}
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", ErrInvalidToken
	}
	tokenID, ok := claims["token_id"].(string)
	if !ok || tokenID == "" {
		return 0, "", ErrInvalidToken
	}

	return uint(sub), tokenID, nil
}
