package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Permissions []uint `json:"permissions"` // Permission IDs
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required"`
}

type RoleResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"is_system"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uint) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id uint, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id uint) error
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	UpdateRolePermissions(ctx context.Context, roleID uint, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	SeedDefaults(ctx context.Context) error
}

type roleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) RoleService {
	return &roleService{db: db}
}

// --- Implementation ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, PermissionResponse{ID: p.ID, Name: p.Name, Group: p.Group})
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	var roles []model.Role
	if err := s.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*RoleResponse, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	role := model.Role{
		Name:        req.Name,
		Description: req.Description,
		IsSystem:    false,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		if len(req.Permissions) > 0 {
			var perms []model.Permission
			if err := tx.Where("id IN ?", req.Permissions).Find(&perms).Error; err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := tx.Model(&role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID)
}

func (s *roleService) UpdateRole(ctx context.Context, id uint, req UpdateRoleRequest) (*RoleResponse, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	role.Name = req.Name
	role.Description = req.Description

	if err := s.db.WithContext(ctx).Save(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return s.GetRole(ctx, role.ID)
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch role: %w", err)
	}

	if role.IsSystem {
		return fmt.Errorf("%w: built-in roles cannot be deleted", ErrForbidden)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}
		if err := tx.Delete(&role).Error; err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return nil
	})
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	var perms []model.Permission
	if err := s.db.WithContext(ctx).Order("`group` ASC, name ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, PermissionResponse{ID: p.ID, Name: p.Name, Group: p.Group})
	}
	return res, nil
}

func (s *roleService) UpdateRolePermissions(ctx context.Context, roleID uint, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}

	var perms []model.Permission
	if len(req.PermissionIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", req.PermissionIDs).Find(&perms).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch permissions: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Model(&role).Association("Permissions").Replace(perms); err != nil {
		return nil, fmt.Errorf("failed to update role permissions: %w", err)
	}

	return s.GetRole(ctx, roleID)
}

// --- Seeding ---

// Entities and verbs of the permission catalogue. One permission per pair,
// named "<entity>.<verb>".
var (
	permissionEntities = []string{
		"products", "categories", "brands", "colors", "attributes", "taxes",
		"clients", "suppliers", "purchase_orders", "receptions", "users",
		"roles", "audit",
	}
	permissionVerbs = []string{"create", "read", "update", "delete"}
)

// SeedDefaults ensures the built-in roles, the permission catalogue, the
// admin grants and the initial admin account exist. Idempotent; runs at
// every startup.
func (s *roleService) SeedDefaults(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleNames := []string{"admin", "manager", "cashier", "storefront"}
		roles := make(map[string]*model.Role, len(roleNames))
		for _, name := range roleNames {
			role := &model.Role{Name: name, IsSystem: true}
			if err := tx.Where("name = ?", name).FirstOrCreate(role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", name, err)
			}
			roles[name] = role
		}

		var all []model.Permission
		for _, entity := range permissionEntities {
			for _, verb := range permissionVerbs {
				perm := model.Permission{Name: entity + "." + verb, Group: entity}
				if err := tx.Where("name = ?", perm.Name).FirstOrCreate(&perm).Error; err != nil {
					return fmt.Errorf("failed to seed permission %s: %w", perm.Name, err)
				}
				all = append(all, perm)
			}
		}

		// admin gets everything; manager everything but users/roles;
		// cashier and storefront read-only.
		if err := tx.Model(roles["admin"]).Association("Permissions").Replace(all); err != nil {
			return fmt.Errorf("failed to grant admin permissions: %w", err)
		}

		var managerPerms, readPerms []model.Permission
		for _, p := range all {
			if p.Group != "users" && p.Group != "roles" {
				managerPerms = append(managerPerms, p)
			}
			if p.Name == p.Group+".read" {
				readPerms = append(readPerms, p)
			}
		}
		if err := tx.Model(roles["manager"]).Association("Permissions").Replace(managerPerms); err != nil {
			return fmt.Errorf("failed to grant manager permissions: %w", err)
		}
		for _, name := range []string{"cashier", "storefront"} {
			if err := tx.Model(roles[name]).Association("Permissions").Replace(readPerms); err != nil {
				return fmt.Errorf("failed to grant %s permissions: %w", name, err)
			}
		}

		// Initial admin account (admin / admin123), created only when absent.
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check admin account: %w", err)
		}
		if count == 0 {
			hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			adminEmail := "admin@example.com"
			admin := model.User{
				FirstName: "Super",
				LastName:  "Admin",
				Username:  "admin",
				Email:     &adminEmail,
				Password:  string(hashed),
				RoleID:    &roles["admin"].ID,
				IsAdmin:   true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to create admin account: %w", err)
			}
			log.Info().Msg("seeded initial admin account")
		}

		return nil
	})
}
