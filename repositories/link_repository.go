package repositories

import (
	"context"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
)

type LinkRepository interface {
	Create(ctx context.Context, l *models.Link) error
	FindByID(ctx context.Context, id uint) (*models.Link, error)
	List(ctx context.Context, f LinkFilter) ([]models.Link, error)
	ListPage(ctx context.Context, f LinkFilter, p PageRequest) (PageResult[models.Link], error)
	Save(ctx context.Context, l *models.Link) error
	Delete(ctx context.Context, id uint) error
}

type LinkFilter struct {
	Validated *bool
}

const linkOrder = "created_at DESC, id DESC"

type GormLinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

func (r *GormLinkRepository) Create(ctx context.Context, l *models.Link) error {
	return translate(r.db.WithContext(ctx).Create(l).Error, ErrLinkNotFound, "link already exists")
}

func (r *GormLinkRepository) FindByID(ctx context.Context, id uint) (*models.Link, error) {
	var l models.Link
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, translate(err, ErrLinkNotFound, "")
	}
	return &l, nil
}

func (r *GormLinkRepository) filtered(ctx context.Context, f LinkFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Link{})
	if f.Validated != nil {
		q = q.Where("validated = ?", *f.Validated)
	}
	return q.Session(&gorm.Session{})
}

func (r *GormLinkRepository) List(ctx context.Context, f LinkFilter) ([]models.Link, error) {
	links := make([]models.Link, 0)
	if err := r.filtered(ctx, f).Order(linkOrder).Find(&links).Error; err != nil {
		return nil, translate(err, ErrLinkNotFound, "")
	}
	return links, nil
}

func (r *GormLinkRepository) ListPage(ctx context.Context, f LinkFilter, p PageRequest) (PageResult[models.Link], error) {
	res, err := findPage[models.Link](r.filtered(ctx, f), p, linkOrder)
	if err != nil {
		return res, translate(err, ErrLinkNotFound, "")
	}
	return res, nil
}

func (r *GormLinkRepository) Save(ctx context.Context, l *models.Link) error {
	return translate(r.db.WithContext(ctx).Save(l).Error, ErrLinkNotFound, "")
}

func (r *GormLinkRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Link{}, id)
	if res.Error != nil {
		return translate(res.Error, ErrLinkNotFound, "")
	}
	if res.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
