package repositories

import (
	"context"
	"time"

	"github.com/princinho/dealsbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// Create inserts u and runs beforeCommit inside the same transaction;
	// the insert is rolled back when beforeCommit fails.
	Create(ctx context.Context, u *models.User, beforeCommit func(ctx context.Context) error) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// ConsumeVerificationToken marks the owner of token verified and clears
	// the token in one conditional update.
	ConsumeVerificationToken(ctx context.Context, token string) error
	SetResetToken(ctx context.Context, id uint, token string, expire time.Time) error
	// ConsumeResetToken replaces the password hash and clears the reset
	// fields, matching only while the expiry is after now. At most one
	// caller can consume a given token.
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) error
	// UpdateNames writes only the non-nil name fields.
	UpdateNames(ctx context.Context, id uint, firstName, lastName *string) error
	ReplaceRoles(ctx context.Context, u *models.User, roles []models.Role) error
	List(ctx context.Context) ([]models.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, u *models.User, beforeCommit func(ctx context.Context) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return translate(err, ErrUserNotFound, "email already registered")
		}
		if beforeCommit != nil {
			return beforeCommit(ctx)
		}
		return nil
	})
	return err
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Roles.Permissions").First(&u, id).Error
	if err != nil {
		return nil, translate(err, ErrUserNotFound, "")
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, args...).First(&u).Error
	if err != nil {
		return nil, translate(err, ErrUserNotFound, "")
	}
	return &u, nil
}

func (r *GormUserRepository) ConsumeVerificationToken(ctx context.Context, token string) error {
	return r.updateWhere(ctx, map[string]any{
		"is_email_verified":        true,
		"email_verification_token": nil,
	}, "email_verification_token = ?", token)
}

func (r *GormUserRepository) SetResetToken(ctx context.Context, id uint, token string, expire time.Time) error {
	return r.updateWhere(ctx, map[string]any{
		"reset_password_token":  token,
		"reset_password_expire": expire,
	}, "id = ?", id)
}

func (r *GormUserRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) error {
	return r.updateWhere(ctx, map[string]any{
		"password_hash":         passwordHash,
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}, "reset_password_token = ? AND reset_password_expire > ?", token, now)
}

func (r *GormUserRepository) UpdateNames(ctx context.Context, id uint, firstName, lastName *string) error {
	fields := map[string]any{}
	if firstName != nil {
		fields["first_name"] = *firstName
	}
	if lastName != nil {
		fields["last_name"] = *lastName
	}
	if len(fields) == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return translate(err, ErrUserNotFound, "")
		}
		if n == 0 {
			return ErrUserNotFound
		}
		return nil
	}
	return r.updateWhere(ctx, fields, "id = ?", id)
}

// updateWhere touches only the given columns; no matching row is NotFound.
func (r *GormUserRepository) updateWhere(ctx context.Context, fields map[string]any, query string, args ...any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, ErrUserNotFound, "")
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) ReplaceRoles(ctx context.Context, u *models.User, roles []models.Role) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(u).Association("Roles").Replace(roles)
	})
	if err != nil {
		return translate(err, ErrUserNotFound, "")
	}
	u.Roles = roles
	return nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).Preload("Roles.Permissions").Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, translate(err, ErrUserNotFound, "")
	}
	return users, nil
}
