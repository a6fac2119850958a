package services_test

import (
	"testing"
	"time"

	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/logging"
	"github.com/princinho/dealsbackend/mailer"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
	"github.com/princinho/dealsbackend/testutil"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	db       *gorm.DB
	mail     *testutil.Mailer
	tokens   *auth.TokenManager
	users    *repositories.GormUserRepository
	roles    *repositories.GormRoleRepository
	perms    *repositories.GormPermissionRepository
	accounts *services.AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:     db,
		mail:   &testutil.Mailer{},
		tokens: auth.NewTokenManager(testSecret, time.Hour),
		users:  repositories.NewUserRepository(db),
		roles:  repositories.NewRoleRepository(db),
		perms:  repositories.NewPermissionRepository(db),
	}
	templates := mailer.Templates{
		VerifyEmailURL:   "https://api.example.com/connection/verify-email",
		ResetPasswordURL: "https://app.example.com/reset-password",
	}
	f.accounts = services.NewAccountService(f.users, f.tokens, f.mail, templates, logging.Discard())
	return f
}
