package repositories

import (
	"context"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionRepository interface {
	// FindOrCreate is an idempotent upsert on the unique name.
	FindOrCreate(ctx context.Context, name string) (*models.Permission, error)
	Create(ctx context.Context, p *models.Permission) error
	FindByID(ctx context.Context, id uint) (*models.Permission, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	Update(ctx context.Context, p *models.Permission) error
	Delete(ctx context.Context, id uint) error
}

type GormPermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) FindOrCreate(ctx context.Context, name string) (*models.Permission, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&models.Permission{Name: name}).Error
	if err != nil {
		return nil, translate(err, ErrPermissionNotFound, "")
	}
	var p models.Permission
	if err := db.Where("name = ?", name).First(&p).Error; err != nil {
		return nil, translate(err, ErrPermissionNotFound, "")
	}
	return &p, nil
}

func (r *GormPermissionRepository) Create(ctx context.Context, p *models.Permission) error {
	err := r.db.WithContext(ctx).Create(p).Error
	return translate(err, ErrPermissionNotFound, "permission already exists")
}

func (r *GormPermissionRepository) FindByID(ctx context.Context, id uint) (*models.Permission, error) {
	var p models.Permission
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, ErrPermissionNotFound, "")
	}
	return &p, nil
}

func (r *GormPermissionRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(ids))
	if len(ids) == 0 {
		return perms, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, translate(err, ErrPermissionNotFound, "")
	}
	return perms, nil
}

func (r *GormPermissionRepository) List(ctx context.Context) ([]models.Permission, error) {
	perms := make([]models.Permission, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, translate(err, ErrPermissionNotFound, "")
	}
	return perms, nil
}

func (r *GormPermissionRepository) Update(ctx context.Context, p *models.Permission) error {
	res := r.db.WithContext(ctx).Model(&models.Permission{ID: p.ID}).Update("name", p.Name)
	if res.Error != nil {
		return translate(res.Error, ErrPermissionNotFound, "permission already exists")
	}
	if res.RowsAffected == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (r *GormPermissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return translate(err, ErrPermissionNotFound, "")
		}
		res := tx.Delete(&models.Permission{}, id)
		if res.Error != nil {
			return translate(res.Error, ErrPermissionNotFound, "")
		}
		if res.RowsAffected == 0 {
			return ErrPermissionNotFound
		}
		return nil
	})
}
