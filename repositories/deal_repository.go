package repositories

import (
	"context"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealRepository interface {
	Create(ctx context.Context, d *models.Deal) error
	FindByID(ctx context.Context, id uint) (*models.Deal, error)
	// List returns matching deals newest first.
	List(ctx context.Context, f DealFilter) ([]models.Deal, error)
	ListPage(ctx context.Context, f DealFilter, p PageRequest) (PageResult[models.Deal], error)
	Save(ctx context.Context, d *models.Deal) error
	Delete(ctx context.Context, id uint) error
}

type DealFilter struct {
	ActiveOnly bool
	Published  *bool
}

const dealOrder = "created_at DESC, id DESC"

type GormDealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

func (r *GormDealRepository) Create(ctx context.Context, d *models.Deal) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error, ErrDealNotFound, "deal already exists")
}

func (r *GormDealRepository) FindByID(ctx context.Context, id uint) (*models.Deal, error) {
	var d models.Deal
	if err := r.db.WithContext(ctx).Preload("Category").First(&d, id).Error; err != nil {
		return nil, translate(err, ErrDealNotFound, "")
	}
	return &d, nil
}

func (r *GormDealRepository) filtered(ctx context.Context, f DealFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Deal{})
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Published != nil {
		q = q.Where("published = ?", *f.Published)
	}
	return q.Session(&gorm.Session{})
}

func (r *GormDealRepository) List(ctx context.Context, f DealFilter) ([]models.Deal, error) {
	deals := make([]models.Deal, 0)
	if err := r.filtered(ctx, f).Preload("Category").Order(dealOrder).Find(&deals).Error; err != nil {
		return nil, translate(err, ErrDealNotFound, "")
	}
	return deals, nil
}

func (r *GormDealRepository) ListPage(ctx context.Context, f DealFilter, p PageRequest) (PageResult[models.Deal], error) {
	res, err := findPage[models.Deal](r.filtered(ctx, f), p, dealOrder, "Category")
	if err != nil {
		return res, translate(err, ErrDealNotFound, "")
	}
	return res, nil
}

func (r *GormDealRepository) Save(ctx context.Context, d *models.Deal) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error, ErrDealNotFound, "")
}

// Delete removes the deal and its likes.
func (r *GormDealRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return translate(err, ErrDealNotFound, "")
		}
		res := tx.Delete(&models.Deal{}, id)
		if res.Error != nil {
			return translate(res.Error, ErrDealNotFound, "")
		}
		if res.RowsAffected == 0 {
			return ErrDealNotFound
		}
		return nil
	})
}
