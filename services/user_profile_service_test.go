package services_test

import (
	"context"
	"testing"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/services"
	"github.com/princinho/dealsbackend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleID(t *testing.T, f *fixture, name string) uint {
	t.Helper()
	var r models.Role
	require.NoError(t, f.db.Where(models.Role{Name: name}).FirstOrCreate(&r).Error)
	return r.ID
}

func TestUpdateUserRolesProtectsOtherAdmins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewUserProfileService(f.users, f.roles)

	admin1 := testutil.CreateUser(t, f.db, "a1@x.com", "pw", "admin")
	admin2 := testutil.CreateUser(t, f.db, "a2@x.com", "pw", "admin")
	managerID := roleID(t, f, "manager")

	_, err := svc.UpdateUserRoles(ctx, admin2.ID, []uint{managerID}, auth.IdentityFromUser(admin1))
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.UpdateUserRoles(ctx, admin2.ID, []uint{managerID}, auth.IdentityFromUser(admin2))
	require.NoError(t, err)
	assert.Equal(t, []string{"manager"}, updated.RoleNames())
}

func TestUpdateUserRolesStrictCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewUserProfileService(f.users, f.roles)

	admin := testutil.CreateUser(t, f.db, "admin@x.com", "pw", "admin")
	user := testutil.CreateUser(t, f.db, "u@x.com", "pw", "manager")
	editorID := roleID(t, f, "editor")

	_, err := svc.UpdateUserRoles(ctx, user.ID, []uint{editorID, 999}, auth.IdentityFromUser(admin))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	unchanged, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"manager"}, unchanged.RoleNames())

	_, err = svc.UpdateUserRoles(ctx, 999, []uint{editorID}, auth.IdentityFromUser(admin))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	cleared, err := svc.UpdateUserRoles(ctx, user.ID, nil, auth.IdentityFromUser(admin))
	require.NoError(t, err)
	assert.Empty(t, cleared.Roles)
}

func TestListNonAdminUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewUserProfileService(f.users, f.roles)

	admin := testutil.CreateUser(t, f.db, "admin@x.com", "pw", "admin")
	testutil.CreateUser(t, f.db, "both@x.com", "pw", "manager", "admin")
	testutil.CreateUser(t, f.db, "manager@x.com", "pw", "manager")
	testutil.CreateUser(t, f.db, "plain@x.com", "pw")
	testutil.CreateUser(t, f.db, "lookalike@x.com", "pw", "Admin")

	users, err := svc.ListNonAdminUsers(ctx, auth.IdentityFromUser(admin))
	require.NoError(t, err)
	emails := make([]string, 0, len(users))
	for _, u := range users {
		assert.False(t, u.HasRole(models.RoleAdmin))
		emails = append(emails, u.Email)
	}
	assert.ElementsMatch(t, []string{"manager@x.com", "plain@x.com", "lookalike@x.com"}, emails)

	manager, err := f.users.FindByEmail(ctx, "manager@x.com")
	require.NoError(t, err)
	_, err = svc.ListNonAdminUsers(ctx, auth.IdentityFromUser(manager))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
