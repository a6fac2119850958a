package repositories

import (
	"context"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id uint) (*models.Role, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Rename(ctx context.Context, role *models.Role, name string) error
	AppendPermission(ctx context.Context, role *models.Role, perm *models.Permission) error
	ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error
	Delete(ctx context.Context, id uint) error
}

type GormRoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Create inserts the role and its join rows; the permissions themselves
// must already exist.
func (r *GormRoleRepository) Create(ctx context.Context, role *models.Role) error {
	err := r.db.WithContext(ctx).Omit("Permissions.*").Create(role).Error
	return translate(err, ErrRoleNotFound, "role already exists")
}

func (r *GormRoleRepository) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, translate(err, ErrRoleNotFound, "")
	}
	return &role, nil
}

func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(ids))
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).Preload("Permissions").Where("id IN ?", ids).Order("id ASC").Find(&roles).Error
	if err != nil {
		return nil, translate(err, ErrRoleNotFound, "")
	}
	return roles, nil
}

func (r *GormRoleRepository) List(ctx context.Context) ([]models.Role, error) {
	roles := make([]models.Role, 0)
	if err := r.db.WithContext(ctx).Preload("Permissions").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, translate(err, ErrRoleNotFound, "")
	}
	return roles, nil
}

func (r *GormRoleRepository) Rename(ctx context.Context, role *models.Role, name string) error {
	err := r.db.WithContext(ctx).Model(role).Update("name", name).Error
	return translate(err, ErrRoleNotFound, "role already exists")
}

func (r *GormRoleRepository) AppendPermission(ctx context.Context, role *models.Role, perm *models.Permission) error {
	if err := r.db.WithContext(ctx).Model(role).Association("Permissions").Append(perm); err != nil {
		return translate(err, ErrRoleNotFound, "permission already assigned to role")
	}
	return nil
}

func (r *GormRoleRepository) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(role).Association("Permissions").Replace(perms)
	})
	if err != nil {
		return translate(err, ErrRoleNotFound, "")
	}
	role.Permissions = perms
	return nil
}

func (r *GormRoleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := models.Role{ID: id}
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return translate(err, ErrRoleNotFound, "")
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", id).Error; err != nil {
			return translate(err, ErrRoleNotFound, "")
		}
		res := tx.Delete(&models.Role{}, id)
		if res.Error != nil {
			return translate(res.Error, ErrRoleNotFound, "")
		}
		if res.RowsAffected == 0 {
			return ErrRoleNotFound
		}
		return nil
	})
}
