package service

import (
	"context"
	"errors"

	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
)

// RoleService handles business logic for approval roles and their admin
// permissions.
type RoleService struct {
	roleRepo *repository.RoleRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo *repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// ListRoles retrieves all roles without permissions, for selection inputs
// such as the stage editor's role dropdown.
func (s *RoleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.List(ctx)
}

// ListRolesWithPermissions retrieves all roles with their permissions.
func (s *RoleService) ListRolesWithPermissions(ctx context.Context) ([]model.RoleWithPermissions, error) {
	return s.roleRepo.ListWithPermissions(ctx)
}

// GetRoleByID retrieves a specific role and its permissions.
func (s *RoleService) GetRoleByID(ctx context.Context, id int) (*model.RoleWithPermissions, error) {
	return s.roleRepo.GetByID(ctx, id)
}

// CreateRole creates a new role and assigns its permissions.
func (s *RoleService) CreateRole(ctx context.Context, code, name string, permissions []string) (*model.RoleWithPermissions, error) {
	if code == "" || name == "" {
		return nil, errors.New("role code and name cannot be empty")
	}

	id, err := s.roleRepo.Create(ctx, code, name)
	if err != nil {
		return nil, err
	}

	if len(permissions) > 0 {
		if err := s.roleRepo.AssignPermissionsToRole(ctx, id, permissions); err != nil {
			// Best-effort cleanup so a half-created role does not linger.
			_ = s.roleRepo.Delete(ctx, id)
			return nil, err
		}
	}

	return s.GetRoleByID(ctx, id)
}

// UpdateRole updates a role's code, name, and permission set. Permissions
// are replaced wholesale: existing assignments are dropped and the given
// list becomes the new set.
func (s *RoleService) UpdateRole(ctx context.Context, id int, code, name string, permissions []string) (*model.RoleWithPermissions, error) {
	if code == "" || name == "" {
		return nil, errors.New("role code and name cannot be empty")
	}

	if err := s.roleRepo.Update(ctx, id, code, name); err != nil {
		return nil, err
	}

	if err := s.roleRepo.DeleteAllPermissionsFromRole(ctx, id); err != nil {
		return nil, err
	}
	if len(permissions) > 0 {
		if err := s.roleRepo.AssignPermissionsToRole(ctx, id, permissions); err != nil {
			return nil, err
		}
	}

	return s.GetRoleByID(ctx, id)
}

// DeleteRole deletes a role. Deletion fails at the database level while any
// employee or route stage still references the role.
func (s *RoleService) DeleteRole(ctx context.Context, id int) error {
	return s.roleRepo.Delete(ctx, id)
}

// GetAllPermissions retrieves all available admin permission codes.
func (s *RoleService) GetAllPermissions() []string {
	perms := make([]string, len(model.AllPermissions))
	for i, p := range model.AllPermissions {
		perms[i] = string(p)
	}
	return perms
}
