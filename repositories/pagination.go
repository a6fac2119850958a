package repositories

import "gorm.io/gorm"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PageRequest struct {
	Page  int
	Limit int
}

type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func normalizePageRequest(in PageRequest) PageRequest {
	page := in.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return PageRequest{Page: page, Limit: limit}
}

func calcTotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// findPage counts the rows matched by q and loads one page of them. q must
// be a reusable session with its model set; preloads only apply to the page.
func findPage[T any](q *gorm.DB, p PageRequest, order string, preloads ...string) (PageResult[T], error) {
	p = normalizePageRequest(p)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return PageResult[T]{}, err
	}

	page := q.Order(order).Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
	for _, rel := range preloads {
		page = page.Preload(rel)
	}
	items := make([]T, 0, p.Limit)
	if err := page.Find(&items).Error; err != nil {
		return PageResult[T]{}, err
	}
	return PageResult[T]{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: calcTotalPages(total, p.Limit),
	}, nil
}
