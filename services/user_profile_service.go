package services

import (
	"context"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/utils"
)

type UserProfileService struct {
	users repositories.UserRepository
	roles repositories.RoleRepository
}

func NewUserProfileService(users repositories.UserRepository, roles repositories.RoleRepository) *UserProfileService {
	return &UserProfileService{users: users, roles: roles}
}

// GetProfile returns the user with roles and their permissions.
func (s *UserProfileService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// ListNonAdminUsers returns every user not holding the "admin" role,
// including users with no roles at all.
func (s *UserProfileService) ListNonAdminUsers(ctx context.Context, requester *auth.Identity) ([]models.User, error) {
	if !requester.IsAdmin() {
		return nil, apperror.Forbidden("only admins can list users")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if !u.HasRole(models.RoleAdmin) {
			out = append(out, u)
		}
	}
	return out, nil
}

// UpdateUserRoles replaces the target's role set. An admin's roles can
// only be changed by that same admin, and every requested role must exist.
func (s *UserProfileService) UpdateUserRoles(ctx context.Context, targetID uint, roleIDs []uint, requester *auth.Identity) (*models.User, error) {
	if requester == nil {
		return nil, apperror.Unauthenticated("authentication required")
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.HasRole(models.RoleAdmin) && requester.ID != target.ID {
		return nil, apperror.Forbidden("cannot modify another admin's roles")
	}

	ids := utils.UniqueUints(roleIDs)
	roles, err := s.roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, apperror.NotFound("one or more roles not found")
	}
	if err := s.users.ReplaceRoles(ctx, target, roles); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, targetID)
}
