package services_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/logging"
	"github.com/princinho/dealsbackend/mailer"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
	"github.com/princinho/dealsbackend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupVerifyLoginScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, token, err := f.accounts.Signup(ctx, services.SignupInput{Email: "a@x.com", FirstName: "A", LastName: "B", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "pw", user.PasswordHash)

	msg, ok := f.mail.Last()
	require.True(t, ok)
	assert.Equal(t, "a@x.com", msg.To)
	require.NotNil(t, user.EmailVerificationToken)
	assert.Contains(t, msg.Body, "token="+*user.EmailVerificationToken)

	res := f.accounts.Login(ctx, "a@x.com", "pw")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.False(t, res.Success)
	assert.Empty(t, res.Token)

	require.NoError(t, f.accounts.VerifyEmail(ctx, *user.EmailVerificationToken))

	res = f.accounts.Login(ctx, "a@x.com", "pw")
	require.Equal(t, http.StatusOK, res.Status)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "A", res.FirstName)

	claims, err := f.tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)

	// verification tokens are single use
	err = f.accounts.VerifyEmail(ctx, *user.EmailVerificationToken)
	assert.Equal(t, apperror.KindInvalidToken, apperror.KindOf(err))
}

func TestLoginUnverifiedIgnoresPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.accounts.Signup(ctx, services.SignupInput{Email: "u@x.com", Password: "right"})
	require.NoError(t, err)

	for _, pw := range []string{"right", "wrong", ""} {
		res := f.accounts.Login(ctx, "u@x.com", pw)
		assert.Equal(t, http.StatusUnauthorized, res.Status, pw)
		assert.Contains(t, res.Message, "verify")
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "known@x.com", "secret", "manager")

	res := f.accounts.Login(ctx, "missing@x.com", "secret")
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = f.accounts.Login(ctx, "known@x.com", "nope")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "incorrect password", res.Message)

	// lookups are exact
	res = f.accounts.Login(ctx, "KNOWN@x.com", "secret")
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = f.accounts.Login(ctx, "known@x.com", "secret")
	require.True(t, res.Success)
	assert.Equal(t, []string{"manager"}, res.Roles)
	claims, err := f.tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"manager"}, claims.Roles)
}

func TestSignupRollsBackWhenMailFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mail.Err = errors.New("connection refused")

	_, _, err := f.accounts.Signup(ctx, services.SignupInput{Email: "m@x.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInfrastructure, apperror.KindOf(err))

	_, err = f.users.FindByEmail(ctx, "m@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "dup@x.com", "pw")

	_, _, err := f.accounts.Signup(ctx, services.SignupInput{Email: "dup@x.com", Password: "pw"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Empty(t, f.mail.Sent)
}

func TestResetPasswordSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", "old")

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	accounts := f.accounts.WithClock(func() time.Time { return now })
	require.NoError(t, accounts.ForgotPassword(ctx, "a@x.com"))

	u, err := f.users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u.ResetPasswordToken)
	assert.Len(t, *u.ResetPasswordToken, 64)
	assert.True(t, u.ResetPasswordExpire.Equal(now.Add(time.Hour)))
	msg, ok := f.mail.Last()
	require.True(t, ok)
	assert.Contains(t, msg.Body, *u.ResetPasswordToken)

	later := f.accounts.WithClock(func() time.Time { return now.Add(30 * time.Minute) })
	require.NoError(t, later.ResetPassword(ctx, *u.ResetPasswordToken, "new"))

	err = later.ResetPassword(ctx, *u.ResetPasswordToken, "again")
	assert.Equal(t, apperror.KindInvalidOrExpiredToken, apperror.KindOf(err))

	res := f.accounts.Login(ctx, "a@x.com", "new")
	assert.True(t, res.Success)
	reloaded, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ResetPasswordToken)
	assert.Nil(t, reloaded.ResetPasswordExpire)
}

func TestResetPasswordExpires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", "old")

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.accounts.WithClock(func() time.Time { return now }).ForgotPassword(ctx, "a@x.com"))
	u, err := f.users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	late := f.accounts.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	err = late.ResetPassword(ctx, *u.ResetPasswordToken, "newpw")
	assert.Equal(t, apperror.KindInvalidOrExpiredToken, apperror.KindOf(err))

	res := f.accounts.Login(ctx, "a@x.com", "old")
	assert.True(t, res.Success)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.accounts.ForgotPassword(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, f.mail.Sent)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := testutil.CreateUser(t, f.db, "a@x.com", "pw")
	other := testutil.CreateUser(t, f.db, "b@x.com", "pw")
	admin := testutil.CreateUser(t, f.db, "admin@x.com", "pw", "admin")

	require.NoError(t, f.db.Model(u).Update("last_name", "Keep").Error)

	first := "Ada"
	id, err := f.accounts.UpdateProfile(ctx, auth.IdentityFromUser(u), u.ID, services.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, "Keep", id.LastName)

	_, err = f.accounts.UpdateProfile(ctx, auth.IdentityFromUser(other), u.ID, services.ProfileUpdate{FirstName: &first})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	last := "Lovelace"
	id, err = f.accounts.UpdateProfile(ctx, auth.IdentityFromUser(admin), u.ID, services.ProfileUpdate{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, "Lovelace", id.LastName)

	_, err = f.accounts.UpdateProfile(ctx, auth.IdentityFromUser(admin), 999, services.ProfileUpdate{LastName: &last})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// gatedUsers releases ConsumeResetToken callers only once all of them
// have arrived.
type gatedUsers struct {
	*repositories.GormUserRepository
	arrived *sync.WaitGroup
}

func (g gatedUsers) ConsumeResetToken(ctx context.Context, token string, now time.Time, hash string) error {
	g.arrived.Done()
	g.arrived.Wait()
	return g.GormUserRepository.ConsumeResetToken(ctx, token, now, hash)
}

func TestResetPasswordConcurrentRequestsConsumeTokenOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	testutil.CreateUser(t, f.db, "a@x.com", "old")

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.accounts.WithClock(func() time.Time { return now }).ForgotPassword(ctx, "a@x.com"))
	u, err := f.users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	token := *u.ResetPasswordToken

	var arrived sync.WaitGroup
	arrived.Add(2)
	accounts := services.NewAccountService(gatedUsers{f.users, &arrived}, f.tokens, f.mail, mailer.Templates{}, logging.Discard()).
		WithClock(func() time.Time { return now.Add(time.Minute) })

	errs := make([]error, 2)
	var done sync.WaitGroup
	for i, pw := range []string{"first", "second"} {
		done.Add(1)
		go func() {
			defer done.Done()
			errs[i] = accounts.ResetPassword(ctx, token, pw)
		}()
	}
	done.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperror.KindInvalidOrExpiredToken, apperror.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)
}
