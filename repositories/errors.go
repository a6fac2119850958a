package repositories

import (
	"errors"

	"github.com/princinho/dealsbackend/apperror"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrRoleNotFound       = apperror.NotFound("role not found")
	ErrPermissionNotFound = apperror.NotFound("permission not found")
	ErrCategoryNotFound   = apperror.NotFound("category not found")
	ErrDealNotFound       = apperror.NotFound("deal not found")
	ErrLinkNotFound       = apperror.NotFound("link not found")
)

// translate maps driver errors onto the application taxonomy.
func translate(err error, notFound *apperror.Error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(conflictMsg)
	default:
		return apperror.Infrastructure("store", err)
	}
}
