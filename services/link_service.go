package services

import (
	"context"
	"strings"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
)

type LinkInput struct {
	Title       string
	URL         string
	Description string
}

type LinkUpdate struct {
	Title       *string
	URL         *string
	Description *string
}

type LinkService struct {
	links repositories.LinkRepository
}

func NewLinkService(links repositories.LinkRepository) *LinkService {
	return &LinkService{links: links}
}

// Create stores an unvalidated link.
func (s *LinkService) Create(ctx context.Context, in LinkInput) (*models.Link, error) {
	l := &models.Link{
		Title:       strings.TrimSpace(in.Title),
		URL:         strings.TrimSpace(in.URL),
		Description: in.Description,
	}
	if l.Title == "" || l.URL == "" {
		return nil, apperror.BadRequest("title and url are required")
	}
	if err := s.links.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LinkService) List(ctx context.Context, f repositories.LinkFilter) ([]models.Link, error) {
	return s.links.List(ctx, f)
}

func (s *LinkService) ListPage(ctx context.Context, f repositories.LinkFilter, p repositories.PageRequest) (repositories.PageResult[models.Link], error) {
	return s.links.ListPage(ctx, f, p)
}

func (s *LinkService) Get(ctx context.Context, id uint) (*models.Link, error) {
	return s.links.FindByID(ctx, id)
}

func (s *LinkService) Update(ctx context.Context, id uint, in LinkUpdate) (*models.Link, error) {
	l, err := s.links.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if l.Title = strings.TrimSpace(*in.Title); l.Title == "" {
			return nil, apperror.BadRequest("title must not be empty")
		}
	}
	if in.URL != nil {
		if l.URL = strings.TrimSpace(*in.URL); l.URL == "" {
			return nil, apperror.BadRequest("url must not be empty")
		}
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if err := s.links.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LinkService) Delete(ctx context.Context, id uint) error {
	return s.links.Delete(ctx, id)
}

func (s *LinkService) Validate(ctx context.Context, id uint) (*models.Link, error) {
	l, err := s.links.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Validated = true
	if err := s.links.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
