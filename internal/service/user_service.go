package service

import (
	"backend/internal/model"
	"backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for request validation

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone1    string `json:"phone1"`
	Phone2    string `json:"phone2"`
	RoleID    *uint  `json:"role_id"`
	IsAdmin   bool   `json:"is_admin"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"omitempty,min=6"` // empty = keep current hash
	Phone1    string `json:"phone1"`
	Phone2    string `json:"phone2"`
	RoleID    *uint  `json:"role_id"`
	IsAdmin   *bool  `json:"is_admin"`
}

// UserResponse returns user data without exposing the password hash.
type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone1    string `json:"phone1"`
	Phone2    string `json:"phone2"`
	Role      string `json:"role"`
	RoleID    *uint  `json:"role_id"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserService defines the business logic surface for user accounts.
type UserService interface {
	CreateUser(ctx context.Context, actorID *uint, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actorID *uint, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID *uint, id uint) error
}

type userService struct {
	repo      repository.UserRepository
	tokenRepo repository.TokenRepository
	db        *gorm.DB // audit trail writes
}

// NewUserService returns a new instance of UserService.
func NewUserService(repo repository.UserRepository, tokenRepo repository.TokenRepository, db *gorm.DB) UserService {
	return &userService{repo: repo, tokenRepo: tokenRepo, db: db}
}

func mapUserToResponse(user *model.User) *UserResponse {
	role := ""
	if user.Role != nil {
		role = user.Role.Name
	}
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     email,
		Phone1:    user.Phone1,
		Phone2:    user.Phone2,
		Role:      role,
		RoleID:    user.RoleID,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) CreateUser(ctx context.Context, actorID *uint, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username taken", ErrDuplicate)
	}
	if req.Email != "" {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, fmt.Errorf("%w: email taken", ErrDuplicate)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Absent emails are stored as NULL, never as "", so email-less
	// accounts do not trip the unique index.
	var email *string
	if req.Email != "" {
		email = &req.Email
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     email,
		Password:  string(hashed),
		Phone1:    req.Phone1,
		Phone2:    req.Phone2,
		RoleID:    req.RoleID,
		IsAdmin:   req.IsAdmin,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionCreateUser, fmt.Sprint(user.ID), user.Username, nil)

	return s.GetUserByID(ctx, user.ID)
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return mapUserToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, *mapUserToResponse(&users[i]))
	}
	return res, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID *uint, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, fmt.Errorf("%w: username taken", ErrDuplicate)
		}
		user.Username = req.Username
	}
	if req.Email != "" && (user.Email == nil || req.Email != *user.Email) {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, fmt.Errorf("%w: email taken", ErrDuplicate)
		}
		user.Email = &req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone1 != "" {
		user.Phone1 = req.Phone1
	}
	if req.Phone2 != "" {
		user.Phone2 = req.Phone2
	}
	if req.RoleID != nil {
		user.RoleID = req.RoleID
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
		// A password change kills every live session.
		if err := s.tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionUpdateUser, fmt.Sprint(user.ID), user.Username, nil)

	return s.GetUserByID(ctx, user.ID)
}

func (s *userService) DeleteUser(ctx context.Context, actorID *uint, id uint) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	writeAuditLog(ctx, s.db, actorID, model.ActionDeleteUser, fmt.Sprint(id), user.Username, nil)
	return nil
}
