package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/utils"
)

var roleNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)

const maxPermissionNameLen = 100

type RoleService struct {
	roles       repositories.RoleRepository
	permissions repositories.PermissionRepository
}

func NewRoleService(roles repositories.RoleRepository, permissions repositories.PermissionRepository) *RoleService {
	return &RoleService{roles: roles, permissions: permissions}
}

// CreateRole finds or creates each named permission and then the role
// holding exactly that set.
func (s *RoleService) CreateRole(ctx context.Context, name string, permissionNames []string) (*models.Role, error) {
	if !roleNamePattern.MatchString(name) {
		return nil, apperror.BadRequest("invalid role name")
	}

	perms := make([]models.Permission, 0, len(permissionNames))
	seen := make(map[string]bool, len(permissionNames))
	for _, raw := range permissionNames {
		pname, err := normalizePermissionName(raw)
		if err != nil {
			return nil, err
		}
		if seen[pname] {
			continue
		}
		seen[pname] = true
		p, err := s.permissions.FindOrCreate(ctx, pname)
		if err != nil {
			return nil, err
		}
		perms = append(perms, *p)
	}

	role := &models.Role{Name: name, Permissions: perms}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, role.ID)
}

func (s *RoleService) AddPermissionToRole(ctx context.Context, roleID uint, permissionName string) (*models.Role, error) {
	pname, err := normalizePermissionName(permissionName)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.HasPermission(pname) {
		return nil, apperror.Conflict("permission already assigned to role")
	}
	perm, err := s.permissions.FindOrCreate(ctx, pname)
	if err != nil {
		return nil, err
	}
	if err := s.roles.AppendPermission(ctx, role, perm); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, roleID)
}

// ReplaceRolePermissions swaps the whole permission set. Every id must
// exist; duplicates are ignored.
func (s *RoleService) ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	ids := utils.UniqueUints(permissionIDs)
	perms, err := s.permissions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		return nil, apperror.NotFound("one or more permissions not found")
	}
	if err := s.roles.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, roleID)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) RenameRole(ctx context.Context, id uint, name string) (*models.Role, error) {
	if !roleNamePattern.MatchString(name) {
		return nil, apperror.BadRequest("invalid role name")
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Name == name {
		return role, nil
	}
	if err := s.roles.Rename(ctx, role, name); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	return s.roles.Delete(ctx, id)
}

func normalizePermissionName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperror.BadRequest("permission name is required")
	}
	if len(name) > maxPermissionNameLen {
		return "", apperror.BadRequest("permission name is too long")
	}
	return name, nil
}
