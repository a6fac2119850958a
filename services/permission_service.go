package services

import (
	"context"

	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
)

type PermissionService struct {
	permissions repositories.PermissionRepository
}

func NewPermissionService(permissions repositories.PermissionRepository) *PermissionService {
	return &PermissionService{permissions: permissions}
}

func (s *PermissionService) Create(ctx context.Context, name string) (*models.Permission, error) {
	pname, err := normalizePermissionName(name)
	if err != nil {
		return nil, err
	}
	p := &models.Permission{Name: pname}
	if err := s.permissions.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	return s.permissions.List(ctx)
}

func (s *PermissionService) Get(ctx context.Context, id uint) (*models.Permission, error) {
	return s.permissions.FindByID(ctx, id)
}

func (s *PermissionService) Update(ctx context.Context, id uint, name string) (*models.Permission, error) {
	pname, err := normalizePermissionName(name)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.Update(ctx, &models.Permission{ID: id, Name: pname}); err != nil {
		return nil, err
	}
	return s.permissions.FindByID(ctx, id)
}

func (s *PermissionService) Delete(ctx context.Context, id uint) error {
	return s.permissions.Delete(ctx, id)
}
