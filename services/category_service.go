package services

import (
	"context"
	"strings"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/utils"
)

type CategoryService struct {
	categories repositories.CategoryRepository
}

func NewCategoryService(categories repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{}
	if err := applyCategoryName(c, name); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, f repositories.CategoryFilter) ([]models.Category, error) {
	return s.categories.List(ctx, f)
}

func (s *CategoryService) ListPage(ctx context.Context, f repositories.CategoryFilter, p repositories.PageRequest) (repositories.PageResult[models.Category], error) {
	return s.categories.ListPage(ctx, f, p)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// Update renames the category and regenerates its slug.
func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategoryName(c, name); err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.categories.Delete(ctx, id)
}

func applyCategoryName(c *models.Category, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return apperror.BadRequest("category name must be 1 to 100 characters")
	}
	slug := utils.GenerateSlug(name)
	if slug == "" {
		return apperror.BadRequest("category name must contain letters or digits")
	}
	c.Name = name
	c.Slug = slug
	return nil
}
