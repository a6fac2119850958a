package database_test

import (
	"context"
	"testing"

	"github.com/princinho/dealsbackend/database"
	"github.com/princinho/dealsbackend/logging"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/testutil"
	"github.com/princinho/dealsbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdminUserIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, database.SeedAdminUser(ctx, db, logging.Discard(), " Admin@Example.com ", "first-pass"))
	require.NoError(t, database.SeedAdminUser(ctx, db, logging.Discard(), "admin@example.com", "second-pass"))

	var users []models.User
	require.NoError(t, db.Preload("Roles").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.True(t, users[0].IsEmailVerified)
	assert.True(t, users[0].HasRole(models.RoleAdmin))
	assert.Len(t, users[0].Roles, 1)
	assert.NoError(t, utils.CheckPassword(users[0].PasswordHash, "first-pass"))

	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	assert.EqualValues(t, 2, roles)
}

func TestSeedAdminUserRequiresCredentials(t *testing.T) {
	db := testutil.NewDB(t)
	err := database.SeedAdminUser(context.Background(), db, logging.Discard(), "", "pw")
	assert.Error(t, err)
}
