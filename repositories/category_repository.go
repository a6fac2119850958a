package repositories

import (
	"context"
	"strings"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, f CategoryFilter) ([]models.Category, error)
	ListPage(ctx context.Context, f CategoryFilter, p PageRequest) (PageResult[models.Category], error)
	Save(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uint) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// CategoryFilter.Query is a case-insensitive substring of the name.
type CategoryFilter struct {
	Query string
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, ErrCategoryNotFound, "category already exists")
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, ErrCategoryNotFound, "")
	}
	return &c, nil
}

func (r *GormCategoryRepository) filtered(ctx context.Context, f CategoryFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Category{})
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(term)+"%")
	}
	return q.Session(&gorm.Session{})
}

func (r *GormCategoryRepository) List(ctx context.Context, f CategoryFilter) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.filtered(ctx, f).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err, ErrCategoryNotFound, "")
	}
	return categories, nil
}

func (r *GormCategoryRepository) ListPage(ctx context.Context, f CategoryFilter, p PageRequest) (PageResult[models.Category], error) {
	res, err := findPage[models.Category](r.filtered(ctx, f), p, "name ASC")
	if err != nil {
		return res, translate(err, ErrCategoryNotFound, "")
	}
	return res, nil
}

func (r *GormCategoryRepository) Save(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, ErrCategoryNotFound, "category already exists")
}

// Delete detaches the category from its deals before removing it.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Deal{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return translate(err, ErrCategoryNotFound, "")
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return translate(res.Error, ErrCategoryNotFound, "")
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}
