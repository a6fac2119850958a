package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedAdminUser makes sure the "admin" and "manager" roles exist and that a
// verified admin account exists for email. An existing account is left
// untouched apart from gaining the admin role.
func SeedAdminUser(ctx context.Context, db *gorm.DB, logger *slog.Logger, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var adminRole models.Role
		for _, name := range []string{models.RoleAdmin, models.RoleManager} {
			role := models.Role{Name: name}
			if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
				Create(&role).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
			if name == models.RoleAdmin {
				if err := tx.Where("name = ?", name).First(&adminRole).Error; err != nil {
					return fmt.Errorf("load admin role: %w", err)
				}
			}
		}

		// Only insert if it doesn't exist
		user := models.User{Email: email, PasswordHash: hash, IsEmailVerified: true}
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
			Create(&user)
		if res.Error != nil {
			return fmt.Errorf("seed admin upsert failed: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			logger.InfoContext(ctx, "admin user seeded", "email", email)
		} else {
			logger.InfoContext(ctx, "admin user already exists", "email", email)
		}

		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return fmt.Errorf("load admin user: %w", err)
		}
		if err := tx.Model(&user).Association("Roles").Append(&adminRole); err != nil {
			return fmt.Errorf("grant admin role: %w", err)
		}
		return nil
	})
}
