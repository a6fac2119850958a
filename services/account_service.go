// Package services holds the domain operations behind the HTTP controllers.
package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/mailer"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/utils"
)

const ResetTokenTTL = time.Hour

type SignupInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// ProfileUpdate carries only the fields the caller wants changed.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// LoginResult is returned for every login attempt; callers branch on
// Status rather than on an error.
type LoginResult struct {
	Status    int      `json:"status"`
	Success   bool     `json:"success"`
	Message   string   `json:"message,omitempty"`
	ID        uint     `json:"id,omitempty"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Token     string   `json:"jwt,omitempty"`
}

type AccountService struct {
	users     repositories.UserRepository
	tokens    *auth.TokenManager
	mail      mailer.Mailer
	templates mailer.Templates
	logger    *slog.Logger
	now       func() time.Time
}

func NewAccountService(users repositories.UserRepository, tokens *auth.TokenManager, mail mailer.Mailer, templates mailer.Templates, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		mail:      mail,
		templates: templates,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock returns a copy that reads time from now.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	cp := *s
	cp.now = now
	return &cp
}

// Signup stores an unverified user and emails the verification link. The
// row only commits once the email has been handed to the transport. The
// returned token carries the new id and no roles.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", apperror.BadRequest("email and password are required")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperror.Infrastructure("failed to hash password", err)
	}
	verification := uuid.NewString()
	user := &models.User{
		Email:                  email,
		PasswordHash:           hash,
		FirstName:              strings.TrimSpace(in.FirstName),
		LastName:               strings.TrimSpace(in.LastName),
		EmailVerificationToken: &verification,
	}

	err = s.users.Create(ctx, user, func(ctx context.Context) error {
		if err := s.mail.Send(ctx, s.templates.Verification(email, verification)); err != nil {
			s.logger.ErrorContext(ctx, "verification email failed", "email", email, "error", err)
			return apperror.Infrastructure("failed to send verification email", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, nil)
	if err != nil {
		return nil, "", apperror.Infrastructure("failed to issue token", err)
	}
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, token, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) LoginResult {
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return LoginResult{Status: http.StatusNotFound, Message: "user not found, check your email"}
	case err != nil:
		return s.loginFailure(ctx, err)
	}

	if !user.IsEmailVerified {
		return LoginResult{Status: http.StatusUnauthorized, Message: "please verify your email before logging in"}
	}
	if utils.CheckPassword(user.PasswordHash, password) != nil {
		return LoginResult{Status: http.StatusUnauthorized, Message: "incorrect password"}
	}

	user, err = s.users.FindByID(ctx, user.ID)
	if err != nil {
		return s.loginFailure(ctx, err)
	}
	roles := user.RoleNames()
	token, err := s.tokens.Issue(user.ID, roles)
	if err != nil {
		return s.loginFailure(ctx, err)
	}

	return LoginResult{
		Status:    http.StatusOK,
		Success:   true,
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     roles,
		Token:     token,
	}
}

func (s *AccountService) loginFailure(ctx context.Context, err error) LoginResult {
	s.logger.ErrorContext(ctx, "login failed", "error", err)
	return LoginResult{Status: http.StatusInternalServerError, Message: "an error occurred while logging in"}
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return apperror.InvalidToken("invalid or expired verification token")
	}
	err := s.users.ConsumeVerificationToken(ctx, token)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.InvalidToken("invalid or expired verification token")
	}
	return err
}

func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("no user found with this email")
	}
	if err != nil {
		return err
	}

	token, err := utils.RandomHex(32)
	if err != nil {
		return apperror.Infrastructure("failed to generate reset token", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(ResetTokenTTL)); err != nil {
		return err
	}

	if err := s.mail.Send(ctx, s.templates.PasswordReset(user.Email, token)); err != nil {
		s.logger.ErrorContext(ctx, "reset email failed", "user_id", user.ID, "error", err)
		return apperror.Infrastructure("failed to send reset email", err)
	}
	return nil
}

func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apperror.BadRequest("new password is required")
	}
	if token == "" {
		return apperror.InvalidOrExpiredToken("invalid or expired token")
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperror.Infrastructure("failed to hash password", err)
	}
	err = s.users.ConsumeResetToken(ctx, token, s.now(), hash)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.InvalidOrExpiredToken("invalid or expired token")
	}
	return err
}

// UpdateProfile applies the present fields of in. Only the user themself
// or an admin may change a profile.
func (s *AccountService) UpdateProfile(ctx context.Context, requester *auth.Identity, id uint, in ProfileUpdate) (*auth.Identity, error) {
	if requester == nil {
		return nil, apperror.Unauthenticated("authentication required")
	}
	if requester.ID != id && !requester.IsAdmin() {
		return nil, apperror.Forbidden("you can only update your own profile")
	}
	if err := s.users.UpdateNames(ctx, id, trimmed(in.FirstName), trimmed(in.LastName)); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.IdentityFromUser(user), nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
