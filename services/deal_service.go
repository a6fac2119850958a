package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/storage"
	"github.com/princinho/dealsbackend/utils"
)

type DealInput struct {
	Title       string
	Description string
	ImageURL    string
	Price       float64
	DealURL     string
	IsActive    *bool
	Published   bool
	CategoryID  *uint
}

// DealUpdate leaves nil fields untouched.
type DealUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	Price       *float64
	DealURL     *string
	IsActive    *bool
	Published   *bool
	CategoryID  *uint
}

type DealService struct {
	deals      repositories.DealRepository
	categories repositories.CategoryRepository
	likes      repositories.LikeRepository
	store      storage.ObjectStore
	validator  *utils.FileValidator
	logger     *slog.Logger
	now        func() time.Time
}

// NewDealService wires the deal operations. store may be nil, in which case
// image uploads fail as a configuration error.
func NewDealService(deals repositories.DealRepository, categories repositories.CategoryRepository, likes repositories.LikeRepository, store storage.ObjectStore, validator *utils.FileValidator, logger *slog.Logger) *DealService {
	return &DealService{
		deals:      deals,
		categories: categories,
		likes:      likes,
		store:      store,
		validator:  validator,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *DealService) Create(ctx context.Context, in DealInput) (*models.Deal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.BadRequest("title is required")
	}
	if in.Price < 0 {
		return nil, apperror.BadRequest("price must not be negative")
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	d := &models.Deal{
		Title:       title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Price:       in.Price,
		DealURL:     in.DealURL,
		IsActive:    true,
		Published:   in.Published,
		CategoryID:  in.CategoryID,
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if err := s.deals.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.deals.FindByID(ctx, d.ID)
}

func (s *DealService) List(ctx context.Context, f repositories.DealFilter) ([]models.Deal, error) {
	return s.deals.List(ctx, f)
}

func (s *DealService) ListPage(ctx context.Context, f repositories.DealFilter, p repositories.PageRequest) (repositories.PageResult[models.Deal], error) {
	return s.deals.ListPage(ctx, f, p)
}

func (s *DealService) Get(ctx context.Context, id uint) (*models.Deal, error) {
	return s.deals.FindByID(ctx, id)
}

func (s *DealService) Update(ctx context.Context, id uint, in DealUpdate) (*models.Deal, error) {
	d, err := s.deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.BadRequest("title must not be empty")
		}
		d.Title = title
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.ImageURL != nil {
		d.ImageURL = *in.ImageURL
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperror.BadRequest("price must not be negative")
		}
		d.Price = *in.Price
	}
	if in.DealURL != nil {
		d.DealURL = *in.DealURL
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if in.Published != nil {
		d.Published = *in.Published
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		d.CategoryID = in.CategoryID
		d.Category = nil
	}
	if err := s.deals.Save(ctx, d); err != nil {
		return nil, err
	}
	return s.deals.FindByID(ctx, id)
}

func (s *DealService) Delete(ctx context.Context, id uint) error {
	return s.deals.Delete(ctx, id)
}

// SetValidation records the validation flag for role. The requester must
// currently hold that role. A deal is active once either flag is set.
func (s *DealService) SetValidation(ctx context.Context, id uint, role string, validated bool, requester *auth.Identity) (*models.Deal, error) {
	if role != models.RoleAdmin && role != models.RoleManager {
		return nil, apperror.BadRequest("role must be admin or manager")
	}
	if !requester.HasRole(role) {
		return nil, apperror.Forbidden("you do not hold the " + role + " role")
	}
	d, err := s.deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		d.AdminValidated = validated
	} else {
		d.ManagerValidated = validated
	}
	d.IsActive = d.AdminValidated || d.ManagerValidated
	if err := s.deals.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DealService) Activate(ctx context.Context, id uint) (*models.Deal, error) {
	d, err := s.deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.ManagerValidated || !d.AdminValidated {
		return nil, apperror.BadRequest("deal must be validated by both a manager and an admin before activation")
	}
	d.IsActive = true
	if err := s.deals.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DealService) ListWithLikeCounts(ctx context.Context, activeOnly bool) ([]models.DealWithLikes, error) {
	deals, err := s.deals.List(ctx, repositories.DealFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(deals))
	for i, d := range deals {
		ids[i] = d.ID
	}
	counts, err := s.likes.CountByDeals(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.DealWithLikes, len(deals))
	for i, d := range deals {
		out[i] = models.DealWithLikes{Deal: d, LikeCount: counts[d.ID]}
	}
	return out, nil
}

// UploadImage stores fh as the deal's image and removes the previous
// object when it belonged to the same store.
func (s *DealService) UploadImage(ctx context.Context, id uint, fh *multipart.FileHeader) (*models.Deal, error) {
	if s.store == nil {
		return nil, apperror.Infrastructure("object storage is not configured", nil)
	}
	d, err := s.deals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.validator.ValidateFile(fh); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest("failed to open upload")
	}
	defer f.Close()

	objectName := storage.DealImageObjectName(d.ID, fh.Filename, s.now())
	url, err := s.store.Upload(ctx, objectName, storage.ContentType(fh), f)
	if err != nil {
		s.logger.ErrorContext(ctx, "deal image upload failed", "deal_id", d.ID, "error", err)
		return nil, apperror.Infrastructure("failed to upload image", err)
	}

	previous := d.ImageURL
	d.ImageURL = url
	if err := s.deals.Save(ctx, d); err != nil {
		s.removeObject(ctx, objectName)
		return nil, err
	}
	if previous != "" {
		if old, err := s.store.ObjectName(previous); err == nil {
			s.removeObject(ctx, old)
		}
	}
	return d, nil
}

func (s *DealService) removeObject(ctx context.Context, objectName string) {
	if err := s.store.Delete(ctx, objectName); err != nil {
		s.logger.WarnContext(ctx, "failed to delete object", "object", objectName, "error", err)
	}
}

func (s *DealService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.categories.FindByID(ctx, *id)
	return err
}
