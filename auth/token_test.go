package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "abcdefghijklmnopqrstuvwxyz123456"

func TestIssueAndValidateWithRoles(t *testing.T) {
	m := NewTokenManager(secret, 0)
	assert.Equal(t, DefaultTokenTTL, m.TTL())

	tok, err := m.Issue(42, []string{"admin", "manager"})
	require.NoError(t, err)

	claims, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, []string{"admin", "manager"}, claims.Roles)
	assert.WithinDuration(t, claims.IssuedAt.Add(24*time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestIssueWithoutRolesOmitsClaim(t *testing.T) {
	m := NewTokenManager(secret, time.Hour)
	tok, err := m.Issue(7, nil)
	require.NoError(t, err)

	claims, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Nil(t, claims.Roles)

	raw := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, raw)
	require.NoError(t, err)
	_, present := raw["roles"]
	assert.False(t, present)
}

func TestValidateExpired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager(secret, 24*time.Hour).WithClock(func() time.Time { return issuedAt })
	tok, err := m.Issue(1, nil)
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return issuedAt.Add(24*time.Hour + time.Minute) })
	_, err = later.Validate(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	stillValid := m.WithClock(func() time.Time { return issuedAt.Add(23 * time.Hour) })
	_, err = stillValid.Validate(tok)
	assert.NoError(t, err)
}

func TestValidateRejectsRotatedSecret(t *testing.T) {
	tok, err := NewTokenManager(secret, time.Hour).Issue(1, nil)
	require.NoError(t, err)

	_, err = NewTokenManager("zyxwvutsrqponmlkjihgfedcba654321", time.Hour).Validate(tok)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{ID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenManager(secret, time.Hour).Validate(tok)
	assert.Error(t, err)
}

func TestValidateRejectsMissingExpiryAndGarbage(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1}).SignedString([]byte(secret))
	require.NoError(t, err)

	m := NewTokenManager(secret, time.Hour)
	_, err = m.Validate(tok)
	assert.Error(t, err)

	_, err = m.Validate("not.a.jwt")
	assert.Error(t, err)
	_, err = m.Validate("")
	assert.Error(t, err)
}

func TestIdentityRoles(t *testing.T) {
	u := &models.User{ID: 3, Email: "a@x.com", Roles: []models.Role{{Name: "manager"}}}
	id := IdentityFromUser(u)

	assert.True(t, id.HasRole("manager"))
	assert.False(t, id.HasRole("Manager"))
	assert.False(t, id.IsAdmin())
	assert.True(t, id.HasAnyRole("admin", "manager"))

	var nilID *Identity
	assert.False(t, nilID.HasRole("admin"))
}
