package services

import (
	"context"
	"errors"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
)

type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

type LikeService struct {
	likes repositories.LikeRepository
	deals repositories.DealRepository
}

func NewLikeService(likes repositories.LikeRepository, deals repositories.DealRepository) *LikeService {
	return &LikeService{likes: likes, deals: deals}
}

// Toggle likes the deal, or removes the like when it already exists.
func (s *LikeService) Toggle(ctx context.Context, userID, dealID uint) (LikeState, error) {
	if _, err := s.deals.FindByID(ctx, dealID); err != nil {
		return LikeState{}, err
	}
	existing, err := s.likes.Find(ctx, userID, dealID)
	if err != nil {
		return LikeState{}, err
	}

	liked := existing == nil
	if existing != nil {
		err = s.likes.Delete(ctx, existing.ID)
	} else {
		err = s.likes.Create(ctx, &models.Like{UserID: userID, DealID: dealID})
		// A concurrent request inserted the same like first.
		if errors.Is(err, apperror.ErrConflict) {
			err = nil
		}
	}
	if err != nil {
		return LikeState{}, err
	}

	count, err := s.likes.CountByDeal(ctx, dealID)
	if err != nil {
		return LikeState{}, err
	}
	return LikeState{Liked: liked, Count: count}, nil
}

func (s *LikeService) HasLiked(ctx context.Context, userID, dealID uint) (bool, error) {
	l, err := s.likes.Find(ctx, userID, dealID)
	if err != nil {
		return false, err
	}
	return l != nil, nil
}

func (s *LikeService) Count(ctx context.Context, dealID uint) (int64, error) {
	return s.likes.CountByDeal(ctx, dealID)
}
