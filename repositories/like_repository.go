package repositories

import (
	"context"
	"errors"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
)

type LikeRepository interface {
	// Find returns nil without error when the user has not liked the deal.
	Find(ctx context.Context, userID, dealID uint) (*models.Like, error)
	Create(ctx context.Context, l *models.Like) error
	Delete(ctx context.Context, id uint) error
	CountByDeal(ctx context.Context, dealID uint) (int64, error)
	// CountByDeals only has entries for deals with at least one like.
	CountByDeals(ctx context.Context, dealIDs []uint) (map[uint]int64, error)
}

type GormLikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

func (r *GormLikeRepository) Find(ctx context.Context, userID, dealID uint) (*models.Like, error) {
	var l models.Like
	err := r.db.WithContext(ctx).Where("user_id = ? AND deal_id = ?", userID, dealID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, ErrDealNotFound, "")
	}
	return &l, nil
}

func (r *GormLikeRepository) Create(ctx context.Context, l *models.Like) error {
	return translate(r.db.WithContext(ctx).Create(l).Error, ErrDealNotFound, "deal already liked")
}

func (r *GormLikeRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Like{}, id).Error, ErrDealNotFound, "")
}

func (r *GormLikeRepository) CountByDeal(ctx context.Context, dealID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("deal_id = ?", dealID).Count(&n).Error; err != nil {
		return 0, translate(err, ErrDealNotFound, "")
	}
	return n, nil
}

func (r *GormLikeRepository) CountByDeals(ctx context.Context, dealIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(dealIDs))
	if len(dealIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		DealID uint
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("deal_id, COUNT(*) AS total").
		Where("deal_id IN ?", dealIDs).
		Group("deal_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, ErrDealNotFound, "")
	}
	for _, row := range rows {
		counts[row.DealID] = row.Total
	}
	return counts, nil
}
